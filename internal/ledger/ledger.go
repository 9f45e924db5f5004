// Package ledger keeps the append-only interaction history. The ledger is
// capped: appending past capacity evicts the oldest event first. The
// session's cumulative reward is tracked by the engine, not recomputed from
// the ledger, so eviction never changes earned reward.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/scoutline/scoutline/pkg/types"
)

// DefaultCap bounds the ledger when no explicit capacity is configured.
const DefaultCap = 500

// EventFilter selects a subset of the ledger. Zero-valued fields match
// everything.
type EventFilter struct {
	Actions  []types.Action // Match any of these actions
	EntityID string         // Match events about this entity
	Limit    int            // Keep at most the newest N matches
}

// Ledger is an in-memory capped event log owned by the session engine.
type Ledger struct {
	capacity int
	events   []types.InteractionEvent
}

// New creates a ledger with the given capacity. Non-positive capacities fall
// back to DefaultCap.
func New(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Ledger{capacity: capacity}
}

// Append stamps and stores an event, evicting the oldest entry when the
// ledger is full. Missing IDs get a UUID, missing timestamps get now, and a
// zero reward is replaced by the action's default. The stored event is
// returned.
func (l *Ledger) Append(ev types.InteractionEvent) types.InteractionEvent {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if ev.Reward == 0 {
		ev.Reward = ev.Action.DefaultReward()
	}

	if len(l.events) >= l.capacity {
		overflow := len(l.events) - l.capacity + 1
		l.events = append(l.events[:0], l.events[overflow:]...)
	}
	l.events = append(l.events, ev)
	return ev
}

// Events returns a copy of the full ledger, oldest first.
func (l *Ledger) Events() []types.InteractionEvent {
	return append([]types.InteractionEvent(nil), l.events...)
}

// Filter returns a copy of the events matching the filter, oldest first.
// The snapshot is independent of the ledger: callers can re-iterate freely.
func (l *Ledger) Filter(f EventFilter) []types.InteractionEvent {
	var out []types.InteractionEvent
	for _, ev := range l.events {
		if f.EntityID != "" && ev.EntityID != f.EntityID {
			continue
		}
		if len(f.Actions) > 0 && !matchesAction(ev.Action, f.Actions) {
			continue
		}
		out = append(out, ev)
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// Totals tallies events per action.
func (l *Ledger) Totals() map[types.Action]int {
	totals := make(map[types.Action]int)
	for _, ev := range l.events {
		totals[ev.Action]++
	}
	return totals
}

// Count returns the number of ledger events with the given action.
func (l *Ledger) Count(action types.Action) int {
	n := 0
	for _, ev := range l.events {
		if ev.Action == action {
			n++
		}
	}
	return n
}

// Len returns the current number of events.
func (l *Ledger) Len() int {
	return len(l.events)
}

// Cap returns the configured capacity.
func (l *Ledger) Cap() int {
	return l.capacity
}

// Load replaces the ledger contents from a persisted snapshot, keeping the
// newest events if the snapshot exceeds capacity.
func (l *Ledger) Load(events []types.InteractionEvent) {
	if len(events) > l.capacity {
		events = events[len(events)-l.capacity:]
	}
	l.events = append([]types.InteractionEvent(nil), events...)
}

// Reset drops every event.
func (l *Ledger) Reset() {
	l.events = nil
}

func matchesAction(action types.Action, actions []types.Action) bool {
	for _, a := range actions {
		if action == a {
			return true
		}
	}
	return false
}
