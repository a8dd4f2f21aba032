package dto

// LoginRequest carries the credentials submitted on the login page.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginView is the state rendered by the login template.
type LoginView struct {
	Email string
	Error string
}
