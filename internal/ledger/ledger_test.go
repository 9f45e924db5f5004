package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/scoutline/scoutline/pkg/types"
)

func TestAppendStampsEvent(t *testing.T) {
	l := New(10)
	ev := l.Append(types.InteractionEvent{Action: types.ActionLike, EntityID: "p-1"})

	if ev.ID == "" {
		t.Error("Expected a generated event ID")
	}
	if ev.Timestamp.IsZero() {
		t.Error("Expected a stamped timestamp")
	}
	if ev.Reward != 1.0 {
		t.Errorf("Expected default LIKE reward 1.0, got %v", ev.Reward)
	}
}

func TestAppendKeepsExplicitReward(t *testing.T) {
	l := New(10)
	ev := l.Append(types.InteractionEvent{Action: types.ActionLike, Reward: 3.5})
	if ev.Reward != 3.5 {
		t.Errorf("Expected explicit reward kept, got %v", ev.Reward)
	}

	ev = l.Append(types.InteractionEvent{Action: types.ActionAnnotation})
	if ev.Reward != 0 {
		t.Errorf("Expected neutral action reward 0, got %v", ev.Reward)
	}
}

func TestEvictionOrder(t *testing.T) {
	l := New(5)
	for i := 0; i < 8; i++ {
		l.Append(types.InteractionEvent{
			ID:     fmt.Sprintf("ev-%d", i),
			Action: types.ActionSkip,
		})
	}

	if l.Len() != 5 {
		t.Fatalf("Expected ledger capped at 5, got %d", l.Len())
	}

	events := l.Events()
	for i, ev := range events {
		want := fmt.Sprintf("ev-%d", i+3)
		if ev.ID != want {
			t.Errorf("Expected oldest-first eviction: events[%d] = %s, want %s", i, ev.ID, want)
		}
	}
}

func TestFilter(t *testing.T) {
	l := New(20)
	l.Append(types.InteractionEvent{Action: types.ActionLike, EntityID: "p-1"})
	l.Append(types.InteractionEvent{Action: types.ActionDislike, EntityID: "p-2"})
	l.Append(types.InteractionEvent{Action: types.ActionLike, EntityID: "p-3"})
	l.Append(types.InteractionEvent{Action: types.ActionSave, EntityID: "p-1"})

	likes := l.Filter(EventFilter{Actions: []types.Action{types.ActionLike}})
	if len(likes) != 2 {
		t.Errorf("Expected 2 likes, got %d", len(likes))
	}

	p1 := l.Filter(EventFilter{EntityID: "p-1"})
	if len(p1) != 2 {
		t.Errorf("Expected 2 events for p-1, got %d", len(p1))
	}

	limited := l.Filter(EventFilter{Limit: 3})
	if len(limited) != 3 || limited[2].Action != types.ActionSave {
		t.Errorf("Expected newest 3 events, got %v", limited)
	}

	// The snapshot is independent: mutating it must not touch the ledger.
	likes[0].EntityID = "mutated"
	if l.Events()[0].EntityID != "p-1" {
		t.Error("Filter snapshot shares backing array with ledger")
	}
}

func TestTotalsAndCount(t *testing.T) {
	l := New(20)
	l.Append(types.InteractionEvent{Action: types.ActionLike})
	l.Append(types.InteractionEvent{Action: types.ActionLike})
	l.Append(types.InteractionEvent{Action: types.ActionDislike})

	totals := l.Totals()
	if totals[types.ActionLike] != 2 || totals[types.ActionDislike] != 1 {
		t.Errorf("Unexpected totals: %v", totals)
	}
	if l.Count(types.ActionLike) != 2 {
		t.Errorf("Expected 2 likes, got %d", l.Count(types.ActionLike))
	}
}

func TestLoadTruncatesToCap(t *testing.T) {
	events := make([]types.InteractionEvent, 8)
	for i := range events {
		events[i] = types.InteractionEvent{
			ID:        fmt.Sprintf("ev-%d", i),
			Action:    types.ActionSkip,
			Timestamp: time.Now().UTC(),
		}
	}

	l := New(5)
	l.Load(events)

	if l.Len() != 5 {
		t.Fatalf("Expected load truncated to 5, got %d", l.Len())
	}
	if l.Events()[0].ID != "ev-3" {
		t.Errorf("Expected newest events kept, got first=%s", l.Events()[0].ID)
	}
}

func TestReset(t *testing.T) {
	l := New(5)
	l.Append(types.InteractionEvent{Action: types.ActionLike})
	l.Reset()
	if l.Len() != 0 {
		t.Errorf("Expected empty ledger after reset, got %d", l.Len())
	}
}
