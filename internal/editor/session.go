// Package editor implements the inline profile editing flow of the admin
// list: one edit session per admin login, keyed by the row being edited.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hongminglow/astra-console/internal/models"
)

// ErrNotEditing is returned when an action targets a row that is not in edit mode.
var ErrNotEditing = errors.New("row is not being edited")

// CommitError carries the store's failure for a commit that passed validation.
type CommitError struct {
	RowID string
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit profile %s: %v", e.RowID, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// State is the position of a row in the edit flow.
type State int

const (
	Viewing State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "viewing":
		*s = Viewing
	case "editing":
		*s = Editing
	case "saving":
		*s = Saving
	default:
		return fmt.Errorf("unknown edit state %q", name)
	}
	return nil
}

// Committer persists a normalized profile update and returns the stored row.
type Committer interface {
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.Profile, error)
}

// EditSession is the single draft an admin may hold. The zero value means
// no row is being edited.
type EditSession struct {
	RowID string `json:"row_id,omitempty"`
	State State  `json:"state"`
	Draft Draft  `json:"draft"`
	Error string `json:"error,omitempty"`
}

// Begin starts editing row, replacing whatever edit was in progress.
func Begin(row models.Profile) EditSession {
	return EditSession{
		RowID: row.ID,
		State: Editing,
		Draft: DraftFromProfile(row),
	}
}

// EditingRow reports whether rowID is the row currently held in edit mode.
func (s EditSession) EditingRow(rowID string) bool {
	return s.RowID != "" && s.RowID == rowID && s.State != Viewing
}

// Apply replaces the draft with the values submitted for rowID.
func (s *EditSession) Apply(rowID string, draft Draft) error {
	if s.State != Editing || s.RowID != rowID {
		return ErrNotEditing
	}
	s.Draft = draft
	return nil
}

// Save validates the draft and commits it. A validation failure keeps the
// session in Editing without any write; a commit failure returns it to
// Editing with the store's error text. On success the session resets to
// Viewing and the stored row is returned.
func (s *EditSession) Save(ctx context.Context, committer Committer) (models.Profile, error) {
	if s.State != Editing || s.RowID == "" {
		return models.Profile{}, ErrNotEditing
	}

	update, err := s.Draft.Normalize()
	if err != nil {
		s.Error = err.Error()
		return models.Profile{}, err
	}

	s.State = Saving
	saved, err := committer.UpdateProfile(ctx, s.RowID, update)
	if err != nil {
		s.State = Editing
		s.Error = err.Error()
		return models.Profile{}, &CommitError{RowID: s.RowID, Err: err}
	}

	*s = EditSession{}
	return saved, nil
}

// Cancel discards the draft and any error.
func (s *EditSession) Cancel() {
	*s = EditSession{}
}
