// Package engine provides the session engine that turns operator feedback
// into a preference model and scores new candidates against it. The engine
// owns the whole session state behind one mutex and persists it through a
// pluggable session store after every mutation.
package engine

import (
	"fmt"
	"time"

	"github.com/scoutline/scoutline/internal/embed"
	"github.com/scoutline/scoutline/internal/ledger"
	"github.com/scoutline/scoutline/internal/scoring"
	"github.com/scoutline/scoutline/pkg/types"
)

// maxTopPreferences caps the top positive/negative preference lists in Stats.
const maxTopPreferences = 3

// Config holds configuration for the session engine.
type Config struct {
	// SessionID identifies the session in the store (default: "default").
	SessionID string

	// LedgerCap is the maximum number of interaction events kept (default: 500).
	LedgerCap int

	// EmbeddingDimension is the width of the lexical embeddings (default: 100).
	EmbeddingDimension int

	// PersistTimeout is the maximum time for one background save (default: 5s).
	PersistTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SessionID:          "default",
		LedgerCap:          ledger.DefaultCap,
		EmbeddingDimension: embed.DefaultDimension,
		PersistTimeout:     5 * time.Second,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.SessionID == "" {
		return fmt.Errorf("SessionID must not be empty")
	}

	if c.LedgerCap < 1 {
		return fmt.Errorf("LedgerCap must be >= 1, got %d", c.LedgerCap)
	}

	if c.EmbeddingDimension < 1 {
		return fmt.Errorf("EmbeddingDimension must be >= 1, got %d", c.EmbeddingDimension)
	}

	if c.PersistTimeout <= 0 {
		return fmt.Errorf("PersistTimeout must be > 0, got %v", c.PersistTimeout)
	}

	return nil
}

// Ranked is one entry of a ranked batch: the scoring result plus its
// 1-based position after the stable sort by score.
type Ranked struct {
	Rank int `json:"rank"`
	scoring.Result
}

// SimilarResult reports how close a candidate is to one liked profile.
type SimilarResult struct {
	EntityID   string  `json:"entity_id"`
	Name       string  `json:"name,omitempty"`
	Similarity float64 `json:"similarity"`
}

// TopPreference is a stats summary line for one learned preference.
type TopPreference struct {
	Category string  `json:"category"`
	Value    string  `json:"value"`
	Net      float64 `json:"net"`
}

// Stats summarizes the session for diagnostics.
type Stats struct {
	SessionID        string               `json:"session_id"`
	State            string               `json:"state"`
	Events           int                  `json:"events"`
	ActionCounts     map[types.Action]int `json:"action_counts"`
	Preferences      int                  `json:"preferences"`
	Pairs            int                  `json:"pairs"`
	LikedProfiles    int                  `json:"liked_profiles"`
	CumulativeReward float64              `json:"cumulative_reward"`
	TopPositive      []TopPreference      `json:"top_positive,omitempty"`
	TopNegative      []TopPreference      `json:"top_negative,omitempty"`
}
