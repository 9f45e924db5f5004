package storage

import (
	"context"
	"sync"

	"github.com/scoutline/scoutline/pkg/types"
)

// MemoryStore is an in-memory SessionStore used for tests and ephemeral
// runs. Snapshots are deep-copied on both Save and Load so callers never
// share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*types.SessionState
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*types.SessionState),
	}
}

// Load retrieves a copy of the persisted state for a session.
func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*types.SessionState, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

// Save upserts a copy of the session snapshot.
func (m *MemoryStore) Save(ctx context.Context, state *types.SessionState) error {
	if err := ValidateState(state); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[state.SessionID] = state.Clone()
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
