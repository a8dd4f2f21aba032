package readmodel

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/storage"
)

// Profiles reads profile rows in the three scopes the console uses.
type Profiles struct {
	store  storage.ProfileStore
	logger *zap.Logger
}

// NewProfiles constructs the read model over store.
func NewProfiles(store storage.ProfileStore, logger *zap.Logger) *Profiles {
	return &Profiles{store: store, logger: logger}
}

// Own loads the dashboard projection of the caller's row.
func (p *Profiles) Own(ctx context.Context, userID string) Result[models.ProfileSummary] {
	summary, err := p.store.OwnProfile(ctx, userID)
	switch {
	case err == nil:
		return loaded(summary)
	case errors.Is(err, storage.ErrNotFound):
		return empty[models.ProfileSummary]()
	default:
		p.logger.Error("load own profile", zap.String("user_id", userID), zap.Error(err))
		return failed[models.ProfileSummary](err)
	}
}

// All loads the newest profiles, capped at storage.MaxProfileRows.
func (p *Profiles) All(ctx context.Context) Result[[]models.Profile] {
	rows, err := p.store.ListProfiles(ctx, storage.MaxProfileRows)
	if err != nil {
		p.logger.Error("list profiles", zap.Error(err))
		return failed[[]models.Profile](err)
	}
	if len(rows) == 0 {
		return empty[[]models.Profile]()
	}
	return loaded(rows)
}

// ByID loads one profile. Ids that are not UUIDs are reported as empty
// without querying the store.
func (p *Profiles) ByID(ctx context.Context, id string) Result[models.Profile] {
	if _, err := uuid.Parse(id); err != nil {
		return empty[models.Profile]()
	}
	profile, err := p.store.GetProfile(ctx, id)
	switch {
	case err == nil:
		return loaded(profile)
	case errors.Is(err, storage.ErrNotFound):
		return empty[models.Profile]()
	default:
		p.logger.Error("load profile", zap.String("id", id), zap.Error(err))
		return failed[models.Profile](err)
	}
}
