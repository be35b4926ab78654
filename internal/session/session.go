package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// State holds everything one reporting session has produced so far.
// Each session is independent; two simultaneous users never share state.
type State struct {
	ID               uuid.UUID `json:"id"`
	AudioPath        string    `json:"audio_path,omitempty"`
	ImagePath        string    `json:"image_path,omitempty"`
	Transcript       string    `json:"transcript,omitempty"`
	ImageDescription string    `json:"image_description,omitempty"`
	// Report is the most recent report text. It is replaced wholesale on
	// every successful generation or revision, never appended to.
	Report    string    `json:"report,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasReport reports whether a generation has succeeded for this session yet.
func (s State) HasReport() bool {
	return s.Report != ""
}

// Store persists session state for the lifetime of a UI session.
type Store interface {
	// Put stores the state, replacing any previous state for the same id.
	Put(ctx context.Context, st State) error

	// Get retrieves state by session id. Returns ErrNotFound if missing.
	Get(ctx context.Context, id uuid.UUID) (State, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Close closes the store connection.
	Close() error
}
