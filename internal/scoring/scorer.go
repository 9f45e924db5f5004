// Package scoring turns a candidate's feature tuple and the session's
// learned state into a 0-100 score with human-readable reasons. Scoring is
// pure: it never mutates its inputs, and identical inputs always produce an
// identical result, including the order of reasons and warnings.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/scoutline/scoutline/internal/embed"
	"github.com/scoutline/scoutline/pkg/types"
)

// Result is the scoring outcome for one candidate.
type Result struct {
	EntityID string   `json:"entity_id"`
	Name     string   `json:"name,omitempty"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons,omitempty"`  // Why the score went up
	Warnings []string `json:"warnings,omitempty"` // Why the score went down
}

// Scorer applies the scoring pipeline. It holds no state; the learned model
// arrives as arguments so the engine can snapshot once and score many.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score runs the pipeline: baseline, preference matching in canonical
// order, embedding similarity against liked profiles, domain bonuses, and a
// final clamp to [MinScore, MaxScore].
//
// prefs must already be in canonical order (prefs.Store.All provides this);
// candidateVec is the embedding of the tuple's text.
func (s *Scorer) Score(tuple types.FeatureTuple, prefs []types.Preference, liked map[string][]float64, candidateVec []float64) Result {
	res := Result{
		EntityID: tuple.EntityID,
		Name:     tuple.Name,
	}
	score := Baseline

	// Preference matching. Each (category, value) record contributes at
	// most once per pass: the snapshot holds one record per key.
	for i := range prefs {
		pref := &prefs[i]
		if !matchesTuple(pref, tuple) {
			continue
		}

		net := pref.Net()
		if math.Abs(net) <= NetThreshold {
			continue
		}

		score += clampNet(net) * PrefGain
		if net > 0 {
			res.Reasons = append(res.Reasons, fmt.Sprintf("Matches liked %s: %s", pref.Category, pref.Value))
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Matches disliked %s: %s", pref.Category, pref.Value))
		}
	}

	// Embedding similarity against liked profiles.
	if _, sim := embed.MaxCosine(candidateVec, liked); sim >= SimilarityFloor {
		score += sim * SimilarityGain
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d%% similar to a liked profile", int(math.Round(sim*100))))
	}

	// Domain bonuses.
	if isHighValueRole(tuple.Role) {
		score += RoleBonus
		res.Reasons = append(res.Reasons, fmt.Sprintf("High-signal role: %s", tuple.Role))
	}
	seen := make(map[string]struct{})
	for _, kind := range tuple.Signals {
		if _, high := highValueSignalKinds[kind]; !high {
			continue
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		score += SignalBonus
		res.Reasons = append(res.Reasons, fmt.Sprintf("Fresh signal: %s", kind))
	}

	res.Score = clampScore(score)
	return res
}

// matchesTuple reports whether a preference record applies to the tuple.
// Scalar categories match by case-insensitive equality; highlight and
// affiliation values match any set entry by equality or substring.
func matchesTuple(pref *types.Preference, tuple types.FeatureTuple) bool {
	switch pref.Category {
	case types.CategoryRole:
		return strings.EqualFold(pref.Value, tuple.Role)
	case types.CategoryIndustry:
		return strings.EqualFold(pref.Value, tuple.Industry)
	case types.CategoryRegion:
		return strings.EqualFold(pref.Value, tuple.Region)
	case types.CategoryCompany:
		return strings.EqualFold(pref.Value, tuple.Company)
	case types.CategorySignal:
		return anyEqualFold(tuple.Signals, pref.Value)
	case types.CategoryHighlight:
		return anyContainsFold(tuple.Highlights, pref.Value)
	case types.CategoryAffiliation:
		return anyContainsFold(tuple.Affiliations, pref.Value)
	default:
		return false
	}
}

func anyEqualFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func anyContainsFold(values []string, want string) bool {
	if want == "" {
		return false
	}
	lowered := strings.ToLower(want)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	return false
}

// isHighValueRole checks the role's whole tokens against the high-value
// table.
func isHighValueRole(role string) bool {
	if role == "" {
		return false
	}
	tokens := strings.FieldsFunc(strings.ToLower(role), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if _, ok := highValueRoleTokens[tok]; ok {
			return true
		}
	}
	return false
}

func clampNet(net float64) float64 {
	if net > 1 {
		return 1
	}
	if net < -1 {
		return -1
	}
	return net
}

func clampScore(score float64) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return int(math.Round(score))
}
