package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/storage"
)

var (
	// ErrInvalidCredentials is shown to the user when sign-in fails.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrNoSession means the caller has no live session.
	ErrNoSession = errors.New("no active session")
)

// Session is the server-side record behind a session token. Deleting it
// signs the user out even while the token is still unexpired.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists live sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Service signs users in and out and resolves session tokens.
type Service struct {
	accounts storage.AccountStore
	sessions SessionStore
	tokens   *TokenManager
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(accounts storage.AccountStore, sessions SessionStore, tokens *TokenManager) *Service {
	return &Service{accounts: accounts, sessions: sessions, tokens: tokens, now: time.Now}
}

// Login checks credentials and opens a new session, returning its token.
func (s *Service) Login(ctx context.Context, email, password string) (string, Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", Session{}, ErrInvalidCredentials
	}

	account, err := s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", Session{}, ErrInvalidCredentials
		}
		return "", Session{}, fmt.Errorf("find account: %w", err)
	}
	if !CheckPassword(account.PasswordHash, password) {
		return "", Session{}, ErrInvalidCredentials
	}

	now := s.now()
	session := Session{
		ID:        uuid.NewString(),
		UserID:    account.ID,
		Email:     account.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}
	token, err := s.tokens.Generate(session.UserID, session.Email, session.ID, now)
	if err != nil {
		return "", Session{}, fmt.Errorf("generate token: %w", err)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", Session{}, fmt.Errorf("create session: %w", err)
	}
	return token, session, nil
}

// Resolve maps a token to the principal of its live session.
func (s *Service) Resolve(ctx context.Context, token string) (models.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return models.Principal{}, ErrNoSession
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Principal{}, err
	}
	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return models.Principal{}, err
	}
	if session.UserID != claims.Subject {
		return models.Principal{}, ErrNoSession
	}
	return models.Principal{
		UserID:    session.UserID,
		Email:     session.Email,
		SessionID: session.ID,
	}, nil
}

// Logout destroys the session behind token. Unknown or invalid tokens are
// already signed out.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
