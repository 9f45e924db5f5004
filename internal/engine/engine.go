package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/scoutline/scoutline/internal/embed"
	"github.com/scoutline/scoutline/internal/ledger"
	"github.com/scoutline/scoutline/internal/prefs"
	"github.com/scoutline/scoutline/internal/scoring"
	"github.com/scoutline/scoutline/internal/storage"
	"github.com/scoutline/scoutline/pkg/types"
)

// Engine is the session orchestrator. It wires the feature extractor,
// embedder, preference store, ledger and scorer together, guards them with a
// single mutex, and writes the session state through to the store after
// every mutation.
type Engine struct {
	// Configuration
	config Config

	// Storage layer
	store storage.SessionStore

	// Model components
	embedder *embed.Embedder
	prefs    *prefs.Store
	ledger   *ledger.Ledger
	scorer   *scoring.Scorer

	// Session state (guarded by mu)
	state            string
	likedEmbeddings  map[string][]float64
	pairs            []types.PairPreference
	cumulativeReward float64
	createdAt        time.Time

	// Persistence pipeline: a latest-wins mailbox drained by one writer
	persistCh    chan *types.SessionState
	writerCtx    context.Context
	writerCancel context.CancelFunc
	writerDone   chan struct{}

	// State management
	started      bool
	shuttingDown bool
	mu           sync.Mutex

	// Callbacks
	onEvent func(types.InteractionEvent)

	logger *log.Logger
}

// New creates a session engine backed by the given store.
// Use DefaultConfig() for sensible defaults.
func New(store storage.SessionStore, config Config) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:          config,
		store:           store,
		embedder:        embed.New(config.EmbeddingDimension),
		prefs:           prefs.NewStore(),
		ledger:          ledger.New(config.LedgerCap),
		scorer:          scoring.NewScorer(),
		state:           types.SessionUninitialized,
		likedEmbeddings: make(map[string][]float64),
		persistCh:       make(chan *types.SessionState, 1),
		writerDone:      make(chan struct{}),
		logger:          log.New(os.Stderr, "engine: ", log.LstdFlags),
	}, nil
}

// SetOnEvent sets a callback fired after every appended interaction event.
// The callback runs outside the engine lock; it is used by the server's
// websocket activity feed.
func (e *Engine) SetOnEvent(callback func(types.InteractionEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = callback
}

// Start starts the background persistence writer. It must be called before
// any other operation. The session itself activates lazily on first use.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("engine already started")
	}

	e.writerCtx, e.writerCancel = context.WithCancel(ctx)
	go e.persistLoop()

	e.started = true
	e.logger.Printf("session engine started (session=%s)", e.config.SessionID)

	return nil
}

// Shutdown stops the persistence writer, flushes any pending snapshot
// synchronously, and closes the store.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return fmt.Errorf("engine not started")
	}

	e.shuttingDown = true
	e.writerCancel()

	select {
	case <-e.writerDone:
	case <-ctx.Done():
		e.logger.Printf("WARNING: persistence writer did not stop in time: %v", ctx.Err())
	}

	// Flush the snapshot the writer never got to.
	select {
	case snap := <-e.persistCh:
		if err := e.store.Save(ctx, snap); err != nil {
			e.logger.Printf("WARNING: failed to flush final snapshot for session %s: %v", snap.SessionID, err)
		}
	default:
	}

	e.started = false
	e.shuttingDown = false

	if err := e.store.Close(); err != nil {
		return fmt.Errorf("failed to close session store: %w", err)
	}

	e.logger.Printf("session engine stopped (session=%s)", e.config.SessionID)
	return nil
}

// SessionID returns the configured session identifier.
func (e *Engine) SessionID() string {
	return e.config.SessionID
}

// State returns the current lifecycle state.
func (e *Engine) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ensureActiveLocked performs the lazy uninitialized -> active transition:
// on the session's first operation it loads whatever the store has persisted
// (a load failure is a warning, not an error; the session starts empty and
// stays usable). Callers must hold e.mu.
func (e *Engine) ensureActiveLocked(ctx context.Context) {
	if e.state == types.SessionActive {
		return
	}

	persisted, err := e.store.Load(ctx, e.config.SessionID)
	switch {
	case err == nil:
		e.hydrateLocked(persisted)
		e.logger.Printf("restored session %s: %d preferences, %d events, reward %.1f",
			e.config.SessionID, e.prefs.Len(), e.ledger.Len(), e.cumulativeReward)
	case errors.Is(err, storage.ErrNotFound):
		// First run for this session ID.
	default:
		e.logger.Printf("WARNING: failed to load session %s (starting empty): %v", e.config.SessionID, err)
	}

	if types.IsValidSessionTransition(e.state, types.SessionActive) {
		e.state = types.SessionActive
	}
	if e.createdAt.IsZero() {
		e.createdAt = time.Now().UTC()
	}
}

// hydrateLocked replaces the in-memory model with a persisted snapshot.
func (e *Engine) hydrateLocked(st *types.SessionState) {
	e.prefs.Load(st.Preferences)
	e.ledger.Load(st.Events)

	e.likedEmbeddings = make(map[string][]float64, len(st.LikedEmbeddings))
	for id, vec := range st.LikedEmbeddings {
		e.likedEmbeddings[id] = append([]float64(nil), vec...)
	}

	e.pairs = append([]types.PairPreference(nil), st.Pairs...)
	e.cumulativeReward = st.CumulativeReward
	if !st.CreatedAt.IsZero() {
		e.createdAt = st.CreatedAt
	}
}

// snapshotLocked assembles an isolated copy of the full session state.
func (e *Engine) snapshotLocked() *types.SessionState {
	liked := make(map[string][]float64, len(e.likedEmbeddings))
	for id, vec := range e.likedEmbeddings {
		liked[id] = append([]float64(nil), vec...)
	}

	return &types.SessionState{
		SessionID:        e.config.SessionID,
		State:            e.state,
		Preferences:      e.prefs.All(),
		LikedEmbeddings:  liked,
		Events:           e.ledger.Events(),
		Pairs:            append([]types.PairPreference(nil), e.pairs...),
		CumulativeReward: e.cumulativeReward,
		CreatedAt:        e.createdAt,
		UpdatedAt:        time.Now().UTC(),
	}
}

// schedulePersistLocked hands a fresh snapshot to the background writer.
// The mailbox holds one snapshot; a pending older one is superseded, so the
// writer always persists the newest state and mutations never block on I/O.
func (e *Engine) schedulePersistLocked() {
	snap := e.snapshotLocked()

	select {
	case <-e.persistCh:
	default:
	}
	select {
	case e.persistCh <- snap:
	default:
	}
}

// persistLoop drains the mailbox until Shutdown cancels it.
func (e *Engine) persistLoop() {
	defer close(e.writerDone)

	for {
		select {
		case <-e.writerCtx.Done():
			return
		case snap := <-e.persistCh:
			e.writeSnapshot(snap)
		}
	}
}

// writeSnapshot saves one snapshot with a bounded timeout. Failures are
// logged and dropped: the in-memory session is the source of truth and a
// missed write must never fail the operation that produced it.
func (e *Engine) writeSnapshot(snap *types.SessionState) {
	ctx, cancel := context.WithTimeout(context.Background(), e.config.PersistTimeout)
	defer cancel()

	if err := e.store.Save(ctx, snap); err != nil {
		e.logger.Printf("WARNING: failed to persist session %s: %v", snap.SessionID, err)
	}
}

// fireOnEvent invokes the event callback outside the lock.
func (e *Engine) fireOnEvent(callback func(types.InteractionEvent), ev types.InteractionEvent) {
	if callback != nil {
		callback(ev)
	}
}

// hasSignal reports whether the vector has any non-zero component. Zero
// vectors (empty candidate text) are never stored as liked embeddings.
func hasSignal(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return true
		}
	}
	return false
}
