package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/models"
)

// Store keeps one edit session per key. Load returns the zero session when
// nothing is stored.
type Store interface {
	Load(ctx context.Context, key string) (EditSession, error)
	Save(ctx context.Context, key string, session EditSession) error
	Clear(ctx context.Context, key string) error
}

// Manager drives edit sessions across requests. Keys are admin session ids,
// so each admin holds at most one draft.
type Manager struct {
	store     Store
	committer Committer
	logger    *zap.Logger
}

// NewManager constructs a Manager.
func NewManager(store Store, committer Committer, logger *zap.Logger) *Manager {
	return &Manager{store: store, committer: committer, logger: logger}
}

// Current returns the edit session held under key.
func (m *Manager) Current(ctx context.Context, key string) (EditSession, error) {
	return m.store.Load(ctx, key)
}

// Begin puts row into edit mode, abandoning any other unsaved draft.
func (m *Manager) Begin(ctx context.Context, key string, row models.Profile) (EditSession, error) {
	previous, err := m.store.Load(ctx, key)
	if err == nil && previous.RowID != "" && previous.RowID != row.ID {
		m.logger.Info("abandoning unsaved edit",
			zap.String("abandoned_row", previous.RowID),
			zap.String("row", row.ID))
	}

	session := Begin(row)
	if err := m.store.Save(ctx, key, session); err != nil {
		return EditSession{}, fmt.Errorf("store edit session: %w", err)
	}
	return session, nil
}

// Save applies the submitted draft to rowID and attempts the commit. The
// returned session is the state to render; it is the zero session after a
// successful commit.
func (m *Manager) Save(ctx context.Context, key, rowID string, draft Draft) (EditSession, error) {
	session, err := m.store.Load(ctx, key)
	if err != nil {
		return EditSession{}, fmt.Errorf("load edit session: %w", err)
	}
	if err := session.Apply(rowID, draft); err != nil {
		return session, err
	}

	saved, saveErr := session.Save(ctx, m.committer)
	if saveErr != nil {
		var validationErr *ValidationError
		if !errors.As(saveErr, &validationErr) {
			m.logger.Warn("profile commit failed", zap.String("row", rowID), zap.Error(saveErr))
		}
		if err := m.store.Save(ctx, key, session); err != nil {
			return session, fmt.Errorf("store edit session: %w", err)
		}
		return session, saveErr
	}

	m.logger.Info("profile updated",
		zap.String("row", saved.ID),
		zap.String("wallet_default", string(saved.WalletDefault)))
	// the commit is final; a stale draft must not reopen the row
	if err := m.store.Clear(ctx, key); err != nil {
		m.logger.Warn("clear edit session failed", zap.String("row", saved.ID), zap.Error(err))
		if err := m.store.Save(ctx, key, EditSession{}); err != nil {
			m.logger.Warn("reset edit session failed; draft expires with its ttl",
				zap.String("row", saved.ID), zap.Error(err))
		}
	}
	return session, nil
}

// ExpiredMessage is shown when a submitted draft outlived its edit session.
const ExpiredMessage = "Sessione di modifica scaduta: controlla i valori e premi Salva di nuovo."

// Restore reopens row in edit mode with a submitted draft whose session was
// lost, so the values are shown again instead of discarded. Nothing is written.
func (m *Manager) Restore(ctx context.Context, key string, row models.Profile, draft Draft) (EditSession, error) {
	session := Begin(row)
	session.Draft = draft
	session.Error = ExpiredMessage
	if err := m.store.Save(ctx, key, session); err != nil {
		return session, fmt.Errorf("store edit session: %w", err)
	}
	m.logger.Info("edit session expired; draft restored", zap.String("row", row.ID))
	return session, nil
}

// Cancel drops the draft for rowID. Cancelling a row that is not being
// edited is a no-op.
func (m *Manager) Cancel(ctx context.Context, key, rowID string) error {
	session, err := m.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load edit session: %w", err)
	}
	if !session.EditingRow(rowID) {
		return nil
	}
	session.Cancel()
	return m.store.Clear(ctx, key)
}
