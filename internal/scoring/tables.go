package scoring

// Scoring constants, version 1. The numbers are tuned together: a single
// piece of feedback (weight step 0.15) moves a matching candidate by 3
// points, three consistent likes move it by 9, and a maxed-out preference
// contributes at most PrefGain points in either direction.
const (
	// Baseline is the score of a candidate the session knows nothing about.
	Baseline = 50.0

	// PrefGain scales the clamped net preference weight into points.
	PrefGain = 20.0

	// NetThreshold mutes preferences whose net weight is still noise.
	NetThreshold = 0.1

	// SimilarityFloor is the minimum max-cosine against liked profiles
	// before the similarity bonus applies.
	SimilarityFloor = 0.4

	// SimilarityGain scales the max-cosine into points.
	SimilarityGain = 15.0

	// RoleBonus applies once when the candidate's role is high-value.
	RoleBonus = 6.0

	// SignalBonus applies per matched fresh-signal kind.
	SignalBonus = 5.0
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// highValueRoleTokens mark founder and C-level roles. Matching is done on
// the whole tokens of the lowercased role string, so "Founder & CEO" and
// "Chief Technology Officer" both qualify while "deputy chef" does not.
var highValueRoleTokens = map[string]struct{}{
	"founder":   {},
	"cofounder": {},
	"ceo":       {},
	"cto":       {},
	"coo":       {},
	"cfo":       {},
	"chief":     {},
}

// highValueSignalKinds mark freshness signals worth a fixed bonus each.
var highValueSignalKinds = map[string]struct{}{
	"new-company": {},
	"spin-out":    {},
	"stealth":     {},
}
