// Package feature turns candidate entities into flat feature tuples. The
// extractor is total: any entity, however sparse or malformed, produces a
// tuple. Missing inputs yield empty components, never errors.
package feature

import (
	"strings"
	"unicode"

	"github.com/scoutline/scoutline/pkg/types"
)

// Extract maps an entity to its feature tuple. A nil or unknown entity
// yields the zero tuple.
func Extract(e types.Entity) types.FeatureTuple {
	switch v := e.(type) {
	case *types.Person:
		return extractPerson(v)
	case *types.Company:
		return extractCompany(v)
	case *types.Signal:
		return extractSignal(v)
	default:
		return types.FeatureTuple{}
	}
}

func extractPerson(p *types.Person) types.FeatureTuple {
	freeText := p.Headline + " " + p.About
	highlightText := strings.Join(p.Highlights, " ")

	return types.FeatureTuple{
		EntityID:     p.ID,
		Kind:         types.KindPerson,
		Name:         strings.TrimSpace(p.Name),
		Role:         strings.TrimSpace(p.Role),
		Company:      strings.TrimSpace(p.Company),
		Industry:     classify(industryRules, freeText, DefaultIndustry),
		Region:       classify(regionRules, p.Location, DefaultRegion),
		Signals:      classifyAll(signalRules, freeText+" "+highlightText),
		Highlights:   cleanList(p.Highlights),
		Affiliations: cleanList(p.Affiliations),
		Text:         p.SearchText(),
	}
}

func extractCompany(c *types.Company) types.FeatureTuple {
	freeText := c.Tagline + " " + c.About + " " + c.Sector

	return types.FeatureTuple{
		EntityID:   c.ID,
		Kind:       types.KindCompany,
		Name:       strings.TrimSpace(c.Name),
		Role:       strings.TrimSpace(c.Stage),
		Company:    strings.TrimSpace(c.Name),
		Industry:   classify(industryRules, freeText, DefaultIndustry),
		Region:     classify(regionRules, c.Location, DefaultRegion),
		Signals:    classifyAll(signalRules, c.Stage+" "+strings.Join(c.Highlights, " ")),
		Highlights: cleanList(c.Highlights),
		Text:       c.SearchText(),
	}
}

func extractSignal(s *types.Signal) types.FeatureTuple {
	freeText := s.Title + " " + s.Body
	kind := strings.ToLower(strings.TrimSpace(s.SignalKind))

	signals := classifyAll(signalRules, freeText)
	if kind != "" && !contains(signals, kind) {
		signals = append([]string{kind}, signals...)
	}

	return types.FeatureTuple{
		EntityID: s.ID,
		Kind:     types.KindSignal,
		Name:     strings.TrimSpace(s.DisplayName()),
		Role:     kind,
		Company:  strings.TrimSpace(s.Subject),
		Industry: classify(industryRules, freeText, DefaultIndustry),
		Region:   classify(regionRules, s.Location, DefaultRegion),
		Signals:  signals,
		Text:     s.SearchText(),
	}
}

// tokenSet splits lowered text into a whole-token lookup set.
func tokenSet(lowered string) map[string]struct{} {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// cleanList trims entries and drops blanks, returning a fresh slice.
func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
