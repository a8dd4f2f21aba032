package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/astra-console/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// MaxProfileRows caps the admin listing.
const MaxProfileRows = 100

// AccountStore resolves console credentials.
type AccountStore interface {
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)
}

// RoleChecker evaluates the administrator predicate for a user.
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// ProfileStore captures the profile reads and writes the console performs.
type ProfileStore interface {
	OwnProfile(ctx context.Context, userID string) (models.ProfileSummary, error)
	ListProfiles(ctx context.Context, limit int) ([]models.Profile, error)
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.Profile, error)
}
