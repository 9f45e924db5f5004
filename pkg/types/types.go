// Package types defines the core data structures for the Scoutline sourcing
// engine. These types represent candidate entities, extracted feature tuples,
// learned preferences, interaction events, and the persisted session state.
package types

// Kind identifies the concrete candidate entity type.
type Kind string

// Action identifies one kind of operator interaction with a candidate.
type Action string

// Candidate entity kinds.
const (
	// KindPerson is an individual sourcing candidate (founder, operator, researcher).
	KindPerson Kind = "person"

	// KindCompany is a company or project candidate.
	KindCompany Kind = "company"

	// KindSignal is a raw market signal (a launch, a departure, a filing).
	KindSignal Kind = "signal"
)

// ValidKinds contains every valid candidate kind for validation.
var ValidKinds = []Kind{
	KindPerson,
	KindCompany,
	KindSignal,
}

// IsValidKind checks if the given kind is a known candidate kind.
func IsValidKind(kind Kind) bool {
	for _, valid := range ValidKinds {
		if kind == valid {
			return true
		}
	}
	return false
}

// Interaction action constants. Action names are stored uppercase in the
// ledger and in exports.
const (
	// ActionLike records explicit positive feedback on a candidate.
	ActionLike Action = "LIKE"

	// ActionDislike records explicit negative feedback on a candidate.
	ActionDislike Action = "DISLIKE"

	// ActionSave records a strong positive: the candidate was saved to a list.
	ActionSave Action = "SAVE"

	// ActionSkip records a weak negative: the candidate was passed over.
	ActionSkip Action = "SKIP"

	// ActionPairPreference records an A/B choice between two candidates.
	ActionPairPreference Action = "PAIR_PREFERENCE"

	// ActionAnnotation records a free-form note attached to a candidate.
	ActionAnnotation Action = "ANNOTATION"

	// ActionVoiceInput records transcribed voice input from the operator.
	ActionVoiceInput Action = "VOICE_INPUT"

	// ActionTextInput records free-form text input from the operator.
	ActionTextInput Action = "TEXT_INPUT"
)

// ValidActions contains every valid interaction action for validation.
var ValidActions = []Action{
	ActionLike,
	ActionDislike,
	ActionSave,
	ActionSkip,
	ActionPairPreference,
	ActionAnnotation,
	ActionVoiceInput,
	ActionTextInput,
}

// IsValidAction checks if the given action is a known interaction action.
func IsValidAction(action Action) bool {
	for _, valid := range ValidActions {
		if action == valid {
			return true
		}
	}
	return false
}

// defaultRewards maps each action to the reward stamped on ledger events
// that arrive without an explicit reward. Actions not listed carry 0.
var defaultRewards = map[Action]float64{
	ActionLike:    1.0,
	ActionDislike: -1.0,
	ActionSave:    2.0,
	ActionSkip:    -0.2,
}

// DefaultReward returns the reward associated with the action when the
// caller does not supply one. Unknown and neutral actions return 0.
func (a Action) DefaultReward() float64 {
	return defaultRewards[a]
}

// Preference category constants. Every learned preference is keyed by
// (category, value).
const (
	CategoryRole        = "role"
	CategoryIndustry    = "industry"
	CategoryRegion      = "region"
	CategoryCompany     = "company"
	CategorySignal      = "signal"
	CategoryHighlight   = "highlight"
	CategoryAffiliation = "affiliation"
)

// CategoryOrder is the canonical iteration order for preference categories.
// Serialization, scoring, and reason emission all walk categories in this
// order so that identical state always produces identical output.
var CategoryOrder = []string{
	CategoryRole,
	CategoryIndustry,
	CategoryRegion,
	CategoryCompany,
	CategorySignal,
	CategoryHighlight,
	CategoryAffiliation,
}

// CategoryRank returns the position of a category in the canonical order,
// or len(CategoryOrder) for unknown categories so they sort last.
func CategoryRank(category string) int {
	for i, c := range CategoryOrder {
		if c == category {
			return i
		}
	}
	return len(CategoryOrder)
}

// IsValidCategory checks if the given category is a known preference category.
func IsValidCategory(category string) bool {
	return CategoryRank(category) < len(CategoryOrder)
}
