package feature

import "strings"

// Inference tables, version 1. Tables are ordered: rules are checked top to
// bottom and the first match wins. Single-word keywords match whole tokens
// only ("ai" must not fire on "air"); multi-word phrases match by substring.

// TablesVersion identifies the inference tables baked into this build.
const TablesVersion = "v1"

// Fallback buckets for text that matches no rule.
const (
	DefaultIndustry = "Tech"
	DefaultRegion   = "Other"
)

type inferenceRule struct {
	// Label is the bucket assigned when the rule matches
	Label string

	// Keywords that trigger the rule
	Keywords []string
}

// industryRules classify candidate free text into an industry bucket.
var industryRules = []inferenceRule{
	{
		Label: "AI/ML",
		Keywords: []string{
			"ai", "ml", "llm", "machine learning", "artificial intelligence",
			"deep learning", "neural", "computer vision", "nlp", "agents",
		},
	},
	{
		Label: "Fintech",
		Keywords: []string{
			"fintech", "payments", "banking", "lending", "trading",
			"treasury", "insurance", "underwriting",
		},
	},
	{
		Label: "Healthcare",
		Keywords: []string{
			"health", "healthcare", "medical", "biotech", "clinical",
			"diagnostics", "therapeutics", "pharma",
		},
	},
	{
		Label: "Crypto",
		Keywords: []string{
			"crypto", "blockchain", "web3", "defi", "onchain", "stablecoin",
		},
	},
}

// regionRules bucket raw location strings.
var regionRules = []inferenceRule{
	{
		Label: "Bay Area",
		Keywords: []string{
			"san francisco", "bay area", "palo alto", "mountain view",
			"menlo park", "oakland", "berkeley", "sf",
		},
	},
	{
		Label: "NYC",
		Keywords: []string{
			"new york", "nyc", "brooklyn", "manhattan",
		},
	},
	{
		Label: "Europe",
		Keywords: []string{
			"london", "berlin", "paris", "amsterdam", "zurich", "stockholm",
			"dublin", "madrid", "lisbon", "uk", "germany", "france", "europe",
		},
	},
	{
		Label: "Asia",
		Keywords: []string{
			"singapore", "tokyo", "bangalore", "bengaluru", "shanghai",
			"beijing", "seoul", "hong kong", "india", "japan", "china",
		},
	},
}

// signalRules recognize fresh-signal markers in highlight and stage text.
// Labels are the canonical signal kinds carried on the feature tuple.
var signalRules = []inferenceRule{
	{Label: "new-company", Keywords: []string{"new-company", "new company", "just founded", "founding"}},
	{Label: "spin-out", Keywords: []string{"spin-out", "spinout", "spun out", "spin out"}},
	{Label: "stealth", Keywords: []string{"stealth"}},
	{Label: "funding", Keywords: []string{"funding", "raised", "seed round", "series a"}},
}

// matchRule reports whether the rule fires on the given text. The text and
// its token set are precomputed by the caller so a batch of rules shares one
// tokenize pass.
func matchRule(rule inferenceRule, lowered string, tokens map[string]struct{}) bool {
	for _, kw := range rule.Keywords {
		if strings.ContainsRune(kw, ' ') || strings.ContainsRune(kw, '-') {
			if strings.Contains(lowered, kw) {
				return true
			}
			continue
		}
		if _, ok := tokens[kw]; ok {
			return true
		}
	}
	return false
}

// classify runs the rules in order and returns the first matching label, or
// fallback when none fire. Blank text returns the empty string: extraction
// leaves missing components empty instead of inventing a bucket.
func classify(rules []inferenceRule, text, fallback string) string {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return ""
	}

	tokens := tokenSet(lowered)
	for _, rule := range rules {
		if matchRule(rule, lowered, tokens) {
			return rule.Label
		}
	}
	return fallback
}

// classifyAll returns every rule label that fires, in table order, without
// duplicates. Used for signal kinds where an entity can carry several.
func classifyAll(rules []inferenceRule, text string) []string {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return nil
	}

	tokens := tokenSet(lowered)
	var labels []string
	for _, rule := range rules {
		if matchRule(rule, lowered, tokens) {
			labels = append(labels, rule.Label)
		}
	}
	return labels
}
