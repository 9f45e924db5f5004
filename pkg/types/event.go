package types

import "time"

// InteractionEvent is one entry in the append-only interaction ledger.
type InteractionEvent struct {
	ID     string `json:"id"`     // UUID assigned on append
	Action Action `json:"action"` // What the operator did

	// Candidate reference (empty for pure input events)
	EntityID   string `json:"entity_id,omitempty"`
	EntityKind Kind   `json:"entity_kind,omitempty"`
	EntityName string `json:"entity_name,omitempty"`

	Rationale string    `json:"rationale,omitempty"` // Operator-supplied reason or note text
	Reward    float64   `json:"reward"`              // Stamped from Action.DefaultReward unless supplied
	Timestamp time.Time `json:"timestamp"`
}

// PairPreference records an A/B choice between two candidates. Pairs are
// training data for downstream reward modeling; recording one never touches
// the per-category preference weights.
type PairPreference struct {
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name,omitempty"`
	LoserID    string    `json:"loser_id"`
	LoserName  string    `json:"loser_name,omitempty"`
	Rationale  string    `json:"rationale"`
	Timestamp  time.Time `json:"timestamp"`
}
