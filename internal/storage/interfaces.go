// Package storage provides the persistence layer for Scoutline sessions.
//
// The engine treats persistence as write-through and non-fatal: the
// in-memory session is always authoritative, and a failing store degrades
// the process to ephemeral mode rather than corrupting state. Backends
// implement the single small SessionStore interface and are composed with
// the circuit-breaker decorator in this package.
package storage

import (
	"context"

	"github.com/scoutline/scoutline/pkg/types"
)

// SessionStore persists whole-session snapshots.
type SessionStore interface {
	// Load retrieves the persisted state for a session.
	// Returns ErrNotFound if the session has never been saved.
	Load(ctx context.Context, sessionID string) (*types.SessionState, error)

	// Save upserts the session snapshot. The caller passes an isolated
	// copy; implementations may retain it.
	Save(ctx context.Context, state *types.SessionState) error

	// Close releases any resources held by the store.
	Close() error
}
