package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/scoutline/scoutline/pkg/types"
)

// ErrBreakerOpen is returned when the persistence circuit breaker is open
// and rejects store calls to stop hammering a failing backend.
var ErrBreakerOpen = errors.New("persistence circuit breaker is open")

// BreakerConfig holds the configuration for the persistence breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures required to trip.
	// Default: 5
	MaxFailures uint32

	// Timeout is how long the circuit stays open before half-open probes.
	// Default: 30 seconds
	Timeout time.Duration

	// HalfOpenMaxCalls is the number of probe calls allowed in half-open
	// state. Default: 2
	HalfOpenMaxCalls uint32
}

// BreakerMetrics holds counters about breaker-guarded store calls.
type BreakerMetrics struct {
	TotalCalls          uint64
	TotalSuccesses      uint64
	TotalFailures       uint64
	ConsecutiveFailures uint32
}

// BreakerStore decorates a SessionStore with a circuit breaker. The engine
// logs breaker rejections and keeps running on its in-memory state, so a
// dead backend costs one error check per mutation instead of a timeout.
type BreakerStore struct {
	inner   SessionStore
	breaker *gobreaker.CircuitBreaker
	config  BreakerConfig

	mu      sync.Mutex
	metrics BreakerMetrics
}

// NewBreakerStore wraps a session store with default breaker settings.
func NewBreakerStore(inner SessionStore) *BreakerStore {
	return NewBreakerStoreWithConfig(inner, BreakerConfig{
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 2,
	})
}

// NewBreakerStoreWithConfig wraps a session store with custom breaker
// settings.
func NewBreakerStoreWithConfig(inner SessionStore, config BreakerConfig) *BreakerStore {
	bs := &BreakerStore{
		inner:  inner,
		config: config,
	}

	settings := gobreaker.Settings{
		Name:        "SessionStoreBreaker",
		MaxRequests: config.HalfOpenMaxCalls,
		Interval:    0, // don't clear counts periodically
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Not-found and invalid-input are protocol results, not
			// backend health signals.
			var pass *passthroughError
			return errors.As(err, &pass)
		},
	}

	bs.breaker = gobreaker.NewCircuitBreaker(settings)
	return bs
}

// Load retrieves session state through the breaker. ErrNotFound passes
// through without counting as a backend failure: an empty store is healthy.
func (b *BreakerStore) Load(ctx context.Context, sessionID string) (*types.SessionState, error) {
	result, err := b.execute(ctx, func() (interface{}, error) {
		state, err := b.inner.Load(ctx, sessionID)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			// Expected conditions, not backend health signals.
			return (*types.SessionState)(nil), &passthroughError{err}
		}
		return state, err
	})
	if err != nil {
		return nil, err
	}
	state, _ := result.(*types.SessionState)
	return state, nil
}

// Save writes session state through the breaker. While the circuit is open
// it returns ErrBreakerOpen immediately.
func (b *BreakerStore) Save(ctx context.Context, state *types.SessionState) error {
	_, err := b.execute(ctx, func() (interface{}, error) {
		if err := b.inner.Save(ctx, state); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				return nil, &passthroughError{err}
			}
			return nil, err
		}
		return nil, nil
	})
	return err
}

// Close closes the underlying store directly; shutdown must work even with
// an open circuit.
func (b *BreakerStore) Close() error {
	return b.inner.Close()
}

// State returns the breaker state: "closed", "open", or "half-open".
func (b *BreakerStore) State() string {
	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Metrics returns counters for breaker-guarded calls.
func (b *BreakerStore) Metrics() BreakerMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := b.breaker.Counts()
	return BreakerMetrics{
		TotalCalls:          b.metrics.TotalCalls,
		TotalSuccesses:      b.metrics.TotalSuccesses,
		TotalFailures:       b.metrics.TotalFailures,
		ConsecutiveFailures: counts.ConsecutiveFailures,
	}
}

func (b *BreakerStore) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := b.breaker.Execute(fn)
	if err != nil {
		var pass *passthroughError
		if errors.As(err, &pass) {
			// Counted as a success by IsSuccessful; unwrap for the caller.
			return result, pass.err
		}
		b.recordFailure()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrBreakerOpen
		}
		return result, err
	}

	b.recordSuccess()
	return result, nil
}

func (b *BreakerStore) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metrics.TotalCalls++
	b.metrics.TotalSuccesses++
}

func (b *BreakerStore) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metrics.TotalCalls++
	b.metrics.TotalFailures++
}

// passthroughError marks errors that are expected protocol results
// (not-found, invalid input) rather than backend failures.
type passthroughError struct {
	err error
}

func (p *passthroughError) Error() string { return p.err.Error() }
func (p *passthroughError) Unwrap() error { return p.err }
