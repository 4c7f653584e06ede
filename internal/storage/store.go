// Package storage persists sensitivity synthesis runs: one session per
// invocation, with the instrument configuration and the full result table,
// backed by SQLite.
package storage

import (
	"context"
	"time"

	"github.com/submm-lab/specsens/internal/sensitivity"
)

// Session describes one stored synthesis run.
type Session struct {
	ID         int64     `json:"ID"`                      // Unique identifier for the session
	StartTime  time.Time `json:"startTime"`               // When the synthesis was run
	Instrument string    `json:"instrument"`              // Instrument/configuration label
	Config     *string   `json:"config,omitempty"`        // Optional configuration in JSON format
}

// Store provides an interface for managing sensitivity result storage.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateSession records a new synthesis run and returns its unique
	// identifier. config can be a string, []byte, or any JSON-serializable
	// object; it is stored verbatim alongside the session.
	CreateSession(ctx context.Context, instrument string, config any) (sessionID int64, err error)

	// Session retrieves a specific synthesis session by its ID.
	Session(ctx context.Context, id int64) (session *Session, err error)

	// Sessions returns all synthesis sessions stored in the database,
	// ordered by start time.
	Sessions(ctx context.Context) (sessions []*Session, err error)

	// StoreResults saves a result table for a session. All rows are stored
	// in a single transaction: either the whole table lands or none of it.
	StoreResults(ctx context.Context, sessionID int64, table sensitivity.Table) error

	// Results reads a stored result table back, ordered by frequency.
	// Options narrow the returned rows (WithMinFreq, WithMaxFreq).
	Results(ctx context.Context, sessionID int64, opts ...ReaderOption) (sensitivity.Table, error)

	// Close releases all database connections and resources. After Close is
	// called, the store instance cannot be reused. It is safe to call Close
	// multiple times.
	Close() error
}
