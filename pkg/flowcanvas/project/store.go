package project

import (
	"errors"
	"fmt"
	"time"
)

// Store persists project snapshots and the current-project pointer to
// a durable key-value store. Implementations must be safe for
// concurrent use; the autosaver flushes from its own goroutine.
type Store interface {
	// SaveProject stores a serialized project snapshot.
	// Overwrites if a snapshot with the same id exists.
	SaveProject(id string, data []byte) error

	// LoadProject retrieves a serialized snapshot.
	// Returns ErrNotFound if the project doesn't exist.
	LoadProject(id string) ([]byte, error)

	// ListProjects returns metadata for all stored snapshots.
	// Returns an empty slice (not an error) when the store is empty.
	ListProjects() ([]Info, error)

	// DeleteProject removes a snapshot.
	// Returns nil if the project doesn't exist.
	DeleteProject(id string) error

	// SaveCurrent records the id of the current project.
	SaveCurrent(id string) error

	// LoadCurrent returns the recorded current-project id.
	// Returns ErrNotFound if none has been recorded.
	LoadCurrent() (string, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides snapshot metadata without loading the full project.
type Info struct {
	ID        string
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a project snapshot doesn't exist.
	ErrNotFound = errors.New("project not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("project store closed")
)

// StoreError wraps a persistence failure with operation context.
// Persistence failures are logged and survivable; the in-memory
// graph stays authoritative for the rest of the session.
type StoreError struct {
	Op  string
	ID  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("project store %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("project store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StoreError) Unwrap() error {
	return e.Err
}
