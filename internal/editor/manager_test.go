package editor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/editor"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/testutil"
)

const adminKey = "admin-session"

func setup(t *testing.T) (*editor.Manager, *testutil.MemoryStore, *testutil.MemoryEdits) {
	t.Helper()
	store := testutil.NewMemoryStore()
	store.AddProfile(models.Profile{
		ID:            "row-anna",
		FirstName:     testutil.StringPtr("Anna"),
		WalletDefault: models.WalletBybitUID,
		BybitUID:      testutil.StringPtr("12345"),
	})
	store.AddProfile(models.Profile{
		ID:            "row-marco",
		FirstName:     testutil.StringPtr("Marco"),
		WalletDefault: models.WalletBTCAddress,
		BTCAddress:    testutil.StringPtr("bc1qmarco"),
	})
	edits := testutil.NewMemoryEdits()
	return editor.NewManager(edits, store, zap.NewNop()), store, edits
}

func TestManagerBeginAbandonsPreviousDraft(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)

	anna, _ := store.Profile("row-anna")
	marco, _ := store.Profile("row-marco")

	_, err := m.Begin(ctx, adminKey, anna)
	require.NoError(t, err)
	_, err = m.Begin(ctx, adminKey, marco)
	require.NoError(t, err)

	current, err := m.Current(ctx, adminKey)
	require.NoError(t, err)
	assert.True(t, current.EditingRow("row-marco"))
	assert.False(t, current.EditingRow("row-anna"))
}

func TestManagerSaveSwitchWalletScenario(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)
	anna, _ := store.Profile("row-anna")

	session, err := m.Begin(ctx, adminKey, anna)
	require.NoError(t, err)

	draft := session.Draft
	draft.WalletDefault = "btc_address"
	draft.BTCAddress = ""
	session, err = m.Save(ctx, adminKey, "row-anna", draft)
	var validationErr *editor.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, editor.Editing, session.State)
	assert.Zero(t, store.UpdateCount(), "no write on validation failure")

	current, err := m.Current(ctx, adminKey)
	require.NoError(t, err)
	assert.Equal(t, validationErr.Message, current.Error)

	draft.BTCAddress = "bc1qxyz"
	session, err = m.Save(ctx, adminKey, "row-anna", draft)
	require.NoError(t, err)
	assert.Equal(t, editor.EditSession{}, session)

	stored, _ := store.Profile("row-anna")
	assert.Equal(t, models.WalletBTCAddress, stored.WalletDefault)
	assert.Equal(t, "12345", models.Deref(stored.BybitUID))
	assert.Equal(t, "bc1qxyz", models.Deref(stored.BTCAddress))
	assert.Equal(t, "bc1qxyz", stored.Destination())

	current, err = m.Current(ctx, adminKey)
	require.NoError(t, err)
	assert.Equal(t, editor.EditSession{}, current)
}

func TestManagerSaveCommitFailure(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)
	store.FailUpdates(errors.New("connection reset by peer"))
	anna, _ := store.Profile("row-anna")

	session, err := m.Begin(ctx, adminKey, anna)
	require.NoError(t, err)

	draft := session.Draft
	draft.FirstName = "Annalisa"
	session, err = m.Save(ctx, adminKey, "row-anna", draft)
	var commitErr *editor.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, editor.Editing, session.State)
	assert.Equal(t, "connection reset by peer", session.Error)
	assert.Equal(t, "Annalisa", session.Draft.FirstName)

	stored, _ := store.Profile("row-anna")
	assert.Equal(t, "Anna", models.Deref(stored.FirstName))

	current, err := m.Current(ctx, adminKey)
	require.NoError(t, err)
	assert.True(t, current.EditingRow("row-anna"))
	assert.Equal(t, "Annalisa", current.Draft.FirstName)
}

func TestManagerSaveWrongRow(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)
	anna, _ := store.Profile("row-anna")
	_, err := m.Begin(ctx, adminKey, anna)
	require.NoError(t, err)

	_, err = m.Save(ctx, adminKey, "row-marco", editor.Draft{WalletDefault: "btc_address", BTCAddress: "x"})
	assert.ErrorIs(t, err, editor.ErrNotEditing)
	assert.Zero(t, store.UpdateCount())
}

func TestManagerCancel(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)
	anna, _ := store.Profile("row-anna")
	_, err := m.Begin(ctx, adminKey, anna)
	require.NoError(t, err)

	require.NoError(t, m.Cancel(ctx, adminKey, "row-marco"))
	current, _ := m.Current(ctx, adminKey)
	assert.True(t, current.EditingRow("row-anna"), "cancelling another row is a no-op")

	require.NoError(t, m.Cancel(ctx, adminKey, "row-anna"))
	current, _ = m.Current(ctx, adminKey)
	assert.Equal(t, editor.EditSession{}, current)
	assert.Zero(t, store.UpdateCount())
}

// failingClear refuses to delete drafts, as a Redis outage would.
type failingClear struct {
	*testutil.MemoryEdits
}

func (f failingClear) Clear(ctx context.Context, key string) error {
	return errors.New("redis: connection refused")
}

func TestManagerSaveCommitIsFinalWhenClearFails(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	store.AddProfile(models.Profile{
		ID:            "r1",
		FirstName:     testutil.StringPtr("Old"),
		WalletDefault: models.WalletBybitUID,
		BybitUID:      testutil.StringPtr("12345"),
	})
	edits := failingClear{testutil.NewMemoryEdits()}
	m := editor.NewManager(edits, store, zap.NewNop())

	row, _ := store.Profile("r1")
	session, err := m.Begin(ctx, adminKey, row)
	require.NoError(t, err)

	draft := session.Draft
	draft.FirstName = "New"
	session, err = m.Save(ctx, adminKey, "r1", draft)
	require.NoError(t, err)
	assert.Equal(t, editor.EditSession{}, session)
	assert.Equal(t, 1, store.UpdateCount())

	stored, _ := store.Profile("r1")
	assert.Equal(t, "New", models.Deref(stored.FirstName))

	leftover, err := m.Current(ctx, adminKey)
	require.NoError(t, err)
	assert.False(t, leftover.EditingRow("r1"), "row must not reopen in edit mode")
	assert.Equal(t, editor.Viewing, leftover.State)
}

func TestManagerRestoreKeepsSubmittedDraft(t *testing.T) {
	ctx := context.Background()
	m, store, _ := setup(t)
	anna, _ := store.Profile("row-anna")

	draft := editor.DraftFromProfile(anna)
	draft.BybitUID = "77777"
	_, err := m.Save(ctx, adminKey, "row-anna", draft)
	require.ErrorIs(t, err, editor.ErrNotEditing)

	session, err := m.Restore(ctx, adminKey, anna, draft)
	require.NoError(t, err)
	assert.True(t, session.EditingRow("row-anna"))
	assert.Equal(t, "77777", session.Draft.BybitUID)
	assert.Equal(t, editor.ExpiredMessage, session.Error)
	assert.Zero(t, store.UpdateCount())

	_, err = m.Save(ctx, adminKey, "row-anna", session.Draft)
	require.NoError(t, err)
	stored, _ := store.Profile("row-anna")
	assert.Equal(t, "77777", models.Deref(stored.BybitUID))
}
