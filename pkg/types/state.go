package types

import "time"

// Session lifecycle constants. The machine has exactly two states: a session
// is Uninitialized until its first operation, then Active for its whole life.
// Clearing history wipes the learned state but the session stays Active.
const (
	SessionUninitialized = "uninitialized"
	SessionActive        = "active"
)

// ValidSessionStates contains all valid session lifecycle values.
var ValidSessionStates = []string{
	SessionUninitialized,
	SessionActive,
}

// IsValidSessionState checks if the given state is a valid lifecycle value.
// Empty string is considered valid (means state not set, same as uninitialized).
func IsValidSessionState(state string) bool {
	if state == "" {
		return true
	}
	for _, valid := range ValidSessionStates {
		if state == valid {
			return true
		}
	}
	return false
}

// IsValidSessionTransition validates lifecycle transitions.
//
// Valid transitions:
//
//	(empty) | uninitialized -> active
//	active -> active (clear-history re-enters the same state)
func IsValidSessionTransition(currentState, newState string) bool {
	if newState != SessionActive {
		return false
	}
	switch currentState {
	case "", SessionUninitialized, SessionActive:
		return true
	default:
		return false
	}
}

// SessionState aggregates everything the engine learns in one session. Its
// JSON round-trip is the persistence format for every storage backend.
type SessionState struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`

	// Learned model
	Preferences     []Preference         `json:"preferences"`                // Canonical category order on serialize
	LikedEmbeddings map[string][]float64 `json:"liked_embeddings,omitempty"` // Entity ID -> unit vector, recorded on LIKE

	// Interaction history
	Events []InteractionEvent `json:"events"`
	Pairs  []PairPreference   `json:"pairs,omitempty"`

	// Reward accumulator, independent of ledger eviction
	CumulativeReward float64 `json:"cumulative_reward"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionState returns an empty uninitialized session.
func NewSessionState(sessionID string) *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		SessionID:       sessionID,
		State:           SessionUninitialized,
		LikedEmbeddings: make(map[string][]float64),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Clone returns a deep copy, safe to hand to a background writer while the
// original keeps mutating under the engine lock.
func (s *SessionState) Clone() *SessionState {
	out := *s

	out.Preferences = make([]Preference, 0, len(s.Preferences))
	for i := range s.Preferences {
		out.Preferences = append(out.Preferences, s.Preferences[i].Clone())
	}

	if s.LikedEmbeddings != nil {
		out.LikedEmbeddings = make(map[string][]float64, len(s.LikedEmbeddings))
		for id, vec := range s.LikedEmbeddings {
			out.LikedEmbeddings[id] = append([]float64(nil), vec...)
		}
	}

	out.Events = append([]InteractionEvent(nil), s.Events...)
	out.Pairs = append([]PairPreference(nil), s.Pairs...)
	return &out
}
