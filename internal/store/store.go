// Package store persists wizard session snapshots so a session can be
// resumed after it is evicted from memory or the process restarts.
//
// Three backends implement Store: MemoryStore for tests and single-process
// use, FileStore writing one YAML document per session, and PostgresStore
// keeping snapshots in a JSONB column.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

var (
	// ErrNotFound is returned when no snapshot exists for an ID.
	ErrNotFound = errors.New("store: session not found")

	// ErrInvalidID is returned for IDs that are not UUIDs.
	ErrInvalidID = errors.New("store: invalid session id")
)

// Record is one persisted session.
type Record struct {
	ID        string          `json:"id" yaml:"id"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"updated_at"`
	Snapshot  wizard.Snapshot `json:"snapshot" yaml:"snapshot"`
}

// Summary describes a stored session without its snapshot.
type Summary struct {
	ID        string       `json:"id"`
	State     wizard.State `json:"state"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Store saves and loads session records. Implementations must be safe for
// concurrent use.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Summary, error)
}

// CheckID rejects IDs that are not canonical UUIDs. Every backend calls it
// before touching storage, so IDs can be used as file names.
func CheckID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
