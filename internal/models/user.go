package models

import "time"

// Account captures the credentials row behind a console login.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the caller resolved by the session gate for one request.
type Principal struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"-"`
	IsAdmin   bool   `json:"is_admin"`
}
