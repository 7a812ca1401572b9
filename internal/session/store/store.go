package store

import (
	"context"
	"errors"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface for persisted sessions. Concrete
// drivers (sqlite, file, memory) implement this. Every driver must make
// writes atomic per principal: a reader either sees the previous complete
// session or the new complete one, never a partial record.
type Store interface {
	Sessions() Sessions

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

// Sessions is the per-principal session repository.
type Sessions interface {
	// Get returns the persisted session for a principal, or ErrNotFound.
	Get(ctx context.Context, principalID string) (domain.Session, error)

	// Put replaces the session for a principal. The write is all-or-nothing.
	Put(ctx context.Context, principalID string, session domain.Session) error

	// All returns every persisted session keyed by principal id.
	All(ctx context.Context) (map[string]domain.Session, error)

	// Delete removes the session for a principal. Deleting an absent
	// principal is not an error.
	Delete(ctx context.Context, principalID string) error
}
