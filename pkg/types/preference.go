package types

import "time"

// MaxPreferenceReasons caps each polarity's rationale list. When the cap is
// reached the oldest rationale is dropped first.
const MaxPreferenceReasons = 5

// PrefKey identifies one learned preference by category and value.
// Values are stored in their original casing; lookups are case-insensitive.
type PrefKey struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// Preference accumulates evidence for one (category, value) pair. The
// Positive and Negative weights only ever grow; clearing history is the
// single operation that resets them.
type Preference struct {
	Category string  `json:"category"`
	Value    string  `json:"value"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`

	// Deduplicated rationale lists, newest kept, capped at MaxPreferenceReasons
	PositiveReasons []string `json:"positive_reasons,omitempty"`
	NegativeReasons []string `json:"negative_reasons,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the preference's identifying key.
func (p *Preference) Key() PrefKey {
	return PrefKey{Category: p.Category, Value: p.Value}
}

// Net returns the positive weight minus the negative weight.
func (p *Preference) Net() float64 {
	return p.Positive - p.Negative
}

// Clone returns a deep copy of the preference.
func (p *Preference) Clone() Preference {
	out := *p
	out.PositiveReasons = append([]string(nil), p.PositiveReasons...)
	out.NegativeReasons = append([]string(nil), p.NegativeReasons...)
	return out
}
