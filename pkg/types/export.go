package types

import "time"

// ExportFormatPreferencePairs is the format tag stamped on every export.
const ExportFormatPreferencePairs = "preference-pairs"

// ExportStats summarizes a session for the export header.
type ExportStats struct {
	Likes            int     `json:"likes"`
	Dislikes         int     `json:"dislikes"`
	Pairs            int     `json:"pairs"`
	CumulativeReward float64 `json:"cumulative_reward"`
}

// ExportDocument is the preference-pairs training document produced by the
// export operation. Field order matches the wire format consumed downstream.
type ExportDocument struct {
	Format      string             `json:"format"` // Always ExportFormatPreferencePairs
	Timestamp   time.Time          `json:"timestamp"`
	Stats       ExportStats        `json:"stats"`
	Pairs       []PairPreference   `json:"pairs"`
	Events      []InteractionEvent `json:"events"`
	Preferences []Preference       `json:"preferences"`
}
