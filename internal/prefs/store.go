// Package prefs maintains the per-category preference weights the engine
// learns from operator feedback. The store is a plain in-memory map owned by
// the session engine; all concurrency control happens one layer up.
package prefs

import (
	"sort"
	"strings"
	"time"

	"github.com/scoutline/scoutline/pkg/types"
)

// DefaultStep is the weight added to one polarity per piece of feedback.
const DefaultStep = 0.15

// maxAffiliationUpdates bounds how many affiliations one entity can
// reinforce. Profiles list affiliations most-recent-first, so the leading
// entries are the ones that carry signal.
const maxAffiliationUpdates = 3

// Store accumulates preference weights keyed by (category, value). Weights
// only grow; Reset is the single operation that clears them.
type Store struct {
	step    float64
	records map[types.PrefKey]*types.Preference // key value is lowercased
}

// NewStore creates an empty preference store with the default step size.
func NewStore() *Store {
	return &Store{
		step:    DefaultStep,
		records: make(map[types.PrefKey]*types.Preference),
	}
}

// Update reinforces every non-empty component of the tuple in the given
// polarity, attaching the rationale to each touched record.
func (s *Store) Update(tuple types.FeatureTuple, positive bool, rationale string) {
	now := time.Now().UTC()

	s.touch(types.CategoryRole, tuple.Role, positive, rationale, now)
	s.touch(types.CategoryIndustry, tuple.Industry, positive, rationale, now)
	s.touch(types.CategoryRegion, tuple.Region, positive, rationale, now)
	s.touch(types.CategoryCompany, tuple.Company, positive, rationale, now)

	for _, sig := range tuple.Signals {
		s.touch(types.CategorySignal, sig, positive, rationale, now)
	}
	for _, h := range tuple.Highlights {
		s.touch(types.CategoryHighlight, h, positive, rationale, now)
	}
	for i, a := range tuple.Affiliations {
		if i >= maxAffiliationUpdates {
			break
		}
		s.touch(types.CategoryAffiliation, a, positive, rationale, now)
	}
}

func (s *Store) touch(category, value string, positive bool, rationale string, now time.Time) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	key := normKey(category, value)
	rec, ok := s.records[key]
	if !ok {
		rec = &types.Preference{Category: category, Value: value}
		s.records[key] = rec
	}

	if positive {
		rec.Positive += s.step
		rec.PositiveReasons = appendReason(rec.PositiveReasons, rationale)
	} else {
		rec.Negative += s.step
		rec.NegativeReasons = appendReason(rec.NegativeReasons, rationale)
	}
	rec.UpdatedAt = now
}

// Lookup returns a copy of the record for (category, value). The value match
// is case-insensitive.
func (s *Store) Lookup(category, value string) (types.Preference, bool) {
	rec, ok := s.records[normKey(category, strings.TrimSpace(value))]
	if !ok {
		return types.Preference{}, false
	}
	return rec.Clone(), true
}

// All returns a snapshot of every record in canonical order: categories in
// types.CategoryOrder, values sorted case-insensitively within a category.
// Scoring and serialization both iterate this snapshot, which is what keeps
// score output and reason order stable for identical state.
func (s *Store) All() []types.Preference {
	out := make([]types.Preference, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := types.CategoryRank(out[i].Category), types.CategoryRank(out[j].Category)
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(out[i].Value) < strings.ToLower(out[j].Value)
	})
	return out
}

// Load replaces the store contents from a persisted snapshot.
func (s *Store) Load(prefs []types.Preference) {
	s.records = make(map[types.PrefKey]*types.Preference, len(prefs))
	for i := range prefs {
		rec := prefs[i].Clone()
		s.records[normKey(rec.Category, rec.Value)] = &rec
	}
}

// Len returns the number of distinct (category, value) records.
func (s *Store) Len() int {
	return len(s.records)
}

// Reset drops every record.
func (s *Store) Reset() {
	s.records = make(map[types.PrefKey]*types.Preference)
}

func normKey(category, value string) types.PrefKey {
	return types.PrefKey{Category: category, Value: strings.ToLower(value)}
}

// appendReason adds a rationale to a reason list, deduplicating and keeping
// the newest types.MaxPreferenceReasons entries. A repeated rationale moves
// to the back rather than appearing twice.
func appendReason(reasons []string, rationale string) []string {
	rationale = strings.TrimSpace(rationale)
	if rationale == "" {
		return reasons
	}

	for i, r := range reasons {
		if r == rationale {
			reasons = append(reasons[:i], reasons[i+1:]...)
			break
		}
	}
	reasons = append(reasons, rationale)

	if len(reasons) > types.MaxPreferenceReasons {
		reasons = reasons[len(reasons)-types.MaxPreferenceReasons:]
	}
	return reasons
}
