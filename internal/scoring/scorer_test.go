package scoring

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/scoutline/scoutline/internal/embed"
	"github.com/scoutline/scoutline/pkg/types"
)

func TestBaselineNoPreferences(t *testing.T) {
	s := NewScorer()
	tuple := types.FeatureTuple{EntityID: "p-1", Role: "Engineer", Industry: "Tech"}

	res := s.Score(tuple, nil, nil, nil)
	if res.Score != 50 {
		t.Errorf("Expected baseline 50, got %d", res.Score)
	}
	if len(res.Reasons) != 0 || len(res.Warnings) != 0 {
		t.Errorf("Expected no reasons on a cold session, got %v / %v", res.Reasons, res.Warnings)
	}
}

func TestFounderBonusOnColdSession(t *testing.T) {
	s := NewScorer()
	tuple := types.FeatureTuple{EntityID: "p-1", Role: "Founder & CEO"}

	res := s.Score(tuple, nil, nil, nil)
	if res.Score != 56 {
		t.Errorf("Expected 50 + role bonus 6 = 56, got %d", res.Score)
	}
	if len(res.Reasons) != 1 || res.Reasons[0] != "High-signal role: Founder & CEO" {
		t.Errorf("Expected exactly the role reason, got %v", res.Reasons)
	}
}

func TestLearnedIndustryBeatsRoleBonus(t *testing.T) {
	s := NewScorer()

	// Three likes at step 0.15 each: net 0.45.
	prefs := []types.Preference{{
		Category: types.CategoryIndustry,
		Value:    "AI/ML",
		Positive: 0.45,
	}}
	learned := s.Score(types.FeatureTuple{EntityID: "p-2", Industry: "AI/ML"}, prefs, nil, nil)
	cold := s.Score(types.FeatureTuple{EntityID: "p-1", Role: "Founder"}, nil, nil, nil)

	if learned.Score != 59 {
		t.Errorf("Expected 50 + 0.45*20 = 59, got %d", learned.Score)
	}
	if learned.Score <= cold.Score {
		t.Errorf("Expected learned preference to outrank cold role bonus: %d <= %d", learned.Score, cold.Score)
	}
	if len(learned.Reasons) != 1 || learned.Reasons[0] != "Matches liked industry: AI/ML" {
		t.Errorf("Expected industry reason, got %v", learned.Reasons)
	}
}

func TestDislikedRegionWarns(t *testing.T) {
	s := NewScorer()
	prefs := []types.Preference{{
		Category: types.CategoryRegion,
		Value:    "Europe",
		Negative: 0.15,
	}}

	res := s.Score(types.FeatureTuple{EntityID: "p-3", Region: "Europe"}, prefs, nil, nil)
	if res.Score != 47 {
		t.Errorf("Expected 50 - 0.15*20 = 47, got %d", res.Score)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != "Matches disliked region: Europe" {
		t.Errorf("Expected region warning, got %v", res.Warnings)
	}
	if len(res.Reasons) != 0 {
		t.Errorf("Expected no reasons, got %v", res.Reasons)
	}
}

func TestNetThresholdMutesNoise(t *testing.T) {
	s := NewScorer()
	prefs := []types.Preference{{
		Category: types.CategoryIndustry,
		Value:    "Fintech",
		Positive: 0.15,
		Negative: 0.15, // net 0: one like, one dislike
	}}

	res := s.Score(types.FeatureTuple{EntityID: "p-4", Industry: "Fintech"}, prefs, nil, nil)
	if res.Score != 50 || len(res.Reasons) != 0 || len(res.Warnings) != 0 {
		t.Errorf("Expected muted preference, got score=%d reasons=%v warnings=%v",
			res.Score, res.Reasons, res.Warnings)
	}
}

func TestNetContributionIsClamped(t *testing.T) {
	s := NewScorer()
	prefs := []types.Preference{{
		Category: types.CategoryIndustry,
		Value:    "AI/ML",
		Positive: 37.5, // hundreds of likes: clamped to +1 before the gain
	}}

	res := s.Score(types.FeatureTuple{EntityID: "p-5", Industry: "AI/ML"}, prefs, nil, nil)
	if res.Score != 70 {
		t.Errorf("Expected 50 + 1.0*20 = 70, got %d", res.Score)
	}
}

func TestEmbeddingSimilarityBonus(t *testing.T) {
	s := NewScorer()
	e := embed.New(embed.DefaultDimension)

	likedText := "founder building ML infrastructure for robotics fleets"
	liked := map[string][]float64{"p-liked": e.Embed(likedText)}

	// Identical text: similarity 1.0, bonus 15.
	res := s.Score(types.FeatureTuple{EntityID: "p-6"}, nil, liked, e.Embed(likedText))
	if res.Score != 65 {
		t.Errorf("Expected 50 + 1.0*15 = 65, got %d", res.Score)
	}
	if len(res.Reasons) != 1 || res.Reasons[0] != "100% similar to a liked profile" {
		t.Errorf("Expected similarity reason, got %v", res.Reasons)
	}

	// Unrelated text below the floor: no bonus, no reason.
	res = s.Score(types.FeatureTuple{EntityID: "p-7"}, nil, liked, e.Embed("artisanal sourdough bakery"))
	if res.Score != 50 || len(res.Reasons) != 0 {
		t.Errorf("Expected no similarity bonus below floor, got score=%d reasons=%v", res.Score, res.Reasons)
	}
}

func TestFreshSignalBonusCountedOncePerKind(t *testing.T) {
	s := NewScorer()
	tuple := types.FeatureTuple{
		EntityID: "c-1",
		Signals:  []string{"new-company", "stealth", "new-company", "funding"},
	}

	res := s.Score(tuple, nil, nil, nil)
	if res.Score != 60 {
		t.Errorf("Expected 50 + 5 + 5 = 60 (funding is not high-value), got %d", res.Score)
	}
	if len(res.Reasons) != 2 {
		t.Errorf("Expected two fresh-signal reasons, got %v", res.Reasons)
	}
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer()

	var negative []types.Preference
	for i := 0; i < 10; i++ {
		negative = append(negative, types.Preference{
			Category: types.CategoryHighlight,
			Value:    fmt.Sprintf("bad-%d", i),
			Negative: 5,
		})
	}
	tuple := types.FeatureTuple{EntityID: "p-8"}
	for i := 0; i < 10; i++ {
		tuple.Highlights = append(tuple.Highlights, fmt.Sprintf("bad-%d", i))
	}
	if res := s.Score(tuple, negative, nil, nil); res.Score != 0 {
		t.Errorf("Expected floor at 0, got %d", res.Score)
	}

	var positive []types.Preference
	for i := 0; i < 10; i++ {
		positive = append(positive, types.Preference{
			Category: types.CategoryHighlight,
			Value:    fmt.Sprintf("good-%d", i),
			Positive: 5,
		})
	}
	tuple = types.FeatureTuple{EntityID: "p-9", Role: "Founder"}
	for i := 0; i < 10; i++ {
		tuple.Highlights = append(tuple.Highlights, fmt.Sprintf("good-%d", i))
	}
	if res := s.Score(tuple, positive, nil, nil); res.Score != 100 {
		t.Errorf("Expected ceiling at 100, got %d", res.Score)
	}
}

func TestScoringIsIdempotent(t *testing.T) {
	s := NewScorer()
	e := embed.New(embed.DefaultDimension)

	prefs := []types.Preference{
		{Category: types.CategoryRole, Value: "Founder", Positive: 0.3},
		{Category: types.CategoryIndustry, Value: "AI/ML", Positive: 0.45, Negative: 0.15},
		{Category: types.CategoryRegion, Value: "Europe", Negative: 0.3},
	}
	liked := map[string][]float64{"p-liked": e.Embed("robotics fleet software founder")}
	tuple := types.FeatureTuple{
		EntityID: "p-10",
		Role:     "Founder",
		Industry: "AI/ML",
		Region:   "Europe",
		Signals:  []string{"stealth"},
	}
	vec := e.Embed("robotics fleet software founder")

	first := s.Score(tuple, prefs, liked, vec)
	for i := 0; i < 5; i++ {
		again := s.Score(tuple, prefs, liked, vec)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Scoring not idempotent: %+v vs %+v", first, again)
		}
	}
}

func TestReasonOrderIsStable(t *testing.T) {
	s := NewScorer()
	e := embed.New(embed.DefaultDimension)

	// Canonical snapshot order: role before industry.
	prefs := []types.Preference{
		{Category: types.CategoryRole, Value: "Founder", Positive: 0.3},
		{Category: types.CategoryIndustry, Value: "AI/ML", Positive: 0.3},
	}
	text := "founder ai infrastructure"
	liked := map[string][]float64{"p-liked": e.Embed(text)}
	tuple := types.FeatureTuple{
		EntityID: "p-11",
		Role:     "Founder",
		Industry: "AI/ML",
		Signals:  []string{"stealth"},
	}

	res := s.Score(tuple, prefs, liked, e.Embed(text))
	want := []string{
		"Matches liked role: Founder",
		"Matches liked industry: AI/ML",
		"100% similar to a liked profile",
		"High-signal role: Founder",
		"Fresh signal: stealth",
	}
	if !reflect.DeepEqual(res.Reasons, want) {
		t.Errorf("Reason order mismatch:\n got %v\nwant %v", res.Reasons, want)
	}
}

func TestHighlightSubstringMatch(t *testing.T) {
	s := NewScorer()
	prefs := []types.Preference{{
		Category: types.CategoryHighlight,
		Value:    "ex-Stripe",
		Positive: 0.3,
	}}

	tuple := types.FeatureTuple{
		EntityID:   "p-12",
		Highlights: []string{"Ex-Stripe payments infra lead"},
	}
	res := s.Score(tuple, prefs, nil, nil)
	if res.Score != 56 {
		t.Errorf("Expected substring highlight match for 56, got %d", res.Score)
	}
}

func TestHighValueRoleTokenBoundaries(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"Founder & CEO", true},
		{"Co-founder", true},
		{"Chief Technology Officer", true},
		{"CTO", true},
		{"Staff Engineer", false},
		{"Deputy chef", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isHighValueRole(tc.role); got != tc.want {
			t.Errorf("isHighValueRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}
