package feature

import (
	"testing"

	"github.com/scoutline/scoutline/pkg/types"
)

func TestExtractPerson(t *testing.T) {
	p := &types.Person{
		ID:           "p-1",
		Name:         "Dana Flores",
		Headline:     "Building ML infrastructure for robotics fleets",
		About:        "Previously led platform teams. Starting a new company in stealth.",
		Role:         "Founder & CEO",
		Company:      "Fleetline",
		Location:     "San Francisco, CA",
		Highlights:   []string{"ex-Stripe", " spin-out from CMU "},
		Affiliations: []string{"CMU", "Stripe"},
	}

	tuple := Extract(p)

	if tuple.EntityID != "p-1" || tuple.Kind != types.KindPerson {
		t.Errorf("Identity fields wrong: %+v", tuple)
	}
	if tuple.Role != "Founder & CEO" {
		t.Errorf("Expected role preserved, got %q", tuple.Role)
	}
	if tuple.Industry != "AI/ML" {
		t.Errorf("Expected industry AI/ML, got %q", tuple.Industry)
	}
	if tuple.Region != "Bay Area" {
		t.Errorf("Expected region Bay Area, got %q", tuple.Region)
	}
	if len(tuple.Highlights) != 2 || tuple.Highlights[1] != "spin-out from CMU" {
		t.Errorf("Expected trimmed highlights, got %v", tuple.Highlights)
	}
	if tuple.Text == "" {
		t.Error("Expected non-empty embedder text")
	}

	wantSignals := map[string]bool{"new-company": false, "stealth": false, "spin-out": false}
	for _, s := range tuple.Signals {
		if _, ok := wantSignals[s]; ok {
			wantSignals[s] = true
		}
	}
	for kind, seen := range wantSignals {
		if !seen {
			t.Errorf("Expected signal %q in %v", kind, tuple.Signals)
		}
	}
}

func TestExtractCompany(t *testing.T) {
	c := &types.Company{
		ID:       "c-1",
		Name:     "Clearline Health",
		Tagline:  "Claims automation for clinics",
		About:    "Medical billing workflows without the paper.",
		Sector:   "Healthcare",
		Stage:    "Seed",
		Location: "Berlin, Germany",
	}

	tuple := Extract(c)

	if tuple.Industry != "Healthcare" {
		t.Errorf("Expected industry Healthcare, got %q", tuple.Industry)
	}
	if tuple.Region != "Europe" {
		t.Errorf("Expected region Europe, got %q", tuple.Region)
	}
	if tuple.Role != "Seed" || tuple.Company != "Clearline Health" {
		t.Errorf("Expected stage/company mapping, got role=%q company=%q", tuple.Role, tuple.Company)
	}
}

func TestExtractSignal(t *testing.T) {
	s := &types.Signal{
		ID:         "s-1",
		Title:      "Payments lead leaves Stripe to start trading infrastructure company",
		Body:       "Raised a seed round from angels.",
		SignalKind: "New-Company",
		Subject:    "Alex Kim",
		Location:   "New York",
	}

	tuple := Extract(s)

	if tuple.Role != "new-company" {
		t.Errorf("Expected normalized signal kind, got %q", tuple.Role)
	}
	if len(tuple.Signals) == 0 || tuple.Signals[0] != "new-company" {
		t.Errorf("Expected own kind first in signals, got %v", tuple.Signals)
	}
	if !contains(tuple.Signals, "funding") {
		t.Errorf("Expected inferred funding signal, got %v", tuple.Signals)
	}
	if tuple.Industry != "Fintech" {
		t.Errorf("Expected industry Fintech, got %q", tuple.Industry)
	}
	if tuple.Region != "NYC" {
		t.Errorf("Expected region NYC, got %q", tuple.Region)
	}
}

func TestExtractEmptyEntityDegrades(t *testing.T) {
	tuple := Extract(&types.Person{})
	if !tuple.IsZero() {
		t.Errorf("Expected zero tuple for empty person, got %+v", tuple)
	}

	if got := Extract(nil); got.Kind != "" || !got.IsZero() {
		t.Errorf("Expected zero tuple for nil entity, got %+v", got)
	}
}

func TestIndustryPriorityOrder(t *testing.T) {
	// Text matching both AI and fintech rules: AI wins by table order.
	p := &types.Person{ID: "p-2", Headline: "Machine learning for payments fraud"}
	if tuple := Extract(p); tuple.Industry != "AI/ML" {
		t.Errorf("Expected AI/ML to win priority, got %q", tuple.Industry)
	}
}

func TestIndustryTokenBoundaries(t *testing.T) {
	// "chair" and "air" contain "ai" but must not trigger the AI rule.
	p := &types.Person{ID: "p-3", Headline: "Designer chairs and air purifiers"}
	if tuple := Extract(p); tuple.Industry != DefaultIndustry {
		t.Errorf("Expected default industry, got %q", tuple.Industry)
	}
}

func TestIndustryDefaultsWhenTextPresent(t *testing.T) {
	p := &types.Person{ID: "p-4", Headline: "Logistics marketplaces"}
	if tuple := Extract(p); tuple.Industry != DefaultIndustry {
		t.Errorf("Expected %q, got %q", DefaultIndustry, tuple.Industry)
	}
}

func TestRegionBuckets(t *testing.T) {
	cases := []struct {
		location string
		want     string
	}{
		{"San Francisco, CA", "Bay Area"},
		{"Brooklyn, NY", "NYC"},
		{"London, UK", "Europe"},
		{"Singapore", "Asia"},
		{"Austin, TX", DefaultRegion},
		{"", ""},
	}

	for _, tc := range cases {
		p := &types.Person{ID: "p", Location: tc.location, Headline: "x"}
		if tuple := Extract(p); tuple.Region != tc.want {
			t.Errorf("Region(%q): expected %q, got %q", tc.location, tc.want, tuple.Region)
		}
	}
}
