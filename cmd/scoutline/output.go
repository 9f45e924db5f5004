package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/scoutline/scoutline/internal/engine"
	"github.com/scoutline/scoutline/internal/scoring"
	"github.com/scoutline/scoutline/pkg/types"
)

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printResult writes one scored candidate in the feed format shared with the
// agent loop: score, name, kind, then one line per reason and warning.
func printResult(w io.Writer, entity types.Entity, res scoring.Result) {
	fmt.Fprintf(w, "[%3d] %s (%s %s)\n", res.Score, entity.DisplayName(), entity.EntityKind(), entity.EntityID())
	for _, reason := range res.Reasons {
		fmt.Fprintf(w, "      + %s\n", reason)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "      - %s\n", warning)
	}
}

// printEntity writes the full candidate detail, one field per line.
func printEntity(w io.Writer, e types.Entity) {
	fmt.Fprintf(w, "%s %s: %s\n", e.EntityKind(), e.EntityID(), e.DisplayName())

	writeField := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-13s %s\n", label+":", value)
		}
	}
	writeList := func(label string, values []string) {
		for _, v := range values {
			writeField(label, v)
		}
	}

	switch v := e.(type) {
	case *types.Person:
		writeField("headline", v.Headline)
		writeField("about", v.About)
		writeField("role", v.Role)
		writeField("company", v.Company)
		writeField("location", v.Location)
		writeList("highlight", v.Highlights)
		writeList("affiliation", v.Affiliations)
	case *types.Company:
		writeField("tagline", v.Tagline)
		writeField("about", v.About)
		writeField("sector", v.Sector)
		writeField("stage", v.Stage)
		writeField("location", v.Location)
		writeList("highlight", v.Highlights)
	case *types.Signal:
		writeField("body", v.Body)
		writeField("signal", v.SignalKind)
		writeField("subject", v.Subject)
		writeField("location", v.Location)
	}
}

// printStats writes the session summary block.
func printStats(w io.Writer, st engine.Stats) {
	fmt.Fprintf(w, "session %s (%s): %d events, %d preferences, %d pairs, %d liked profiles, reward %+.1f\n",
		st.SessionID, st.State, st.Events, st.Preferences, st.Pairs, st.LikedProfiles, st.CumulativeReward)

	for _, action := range types.ValidActions {
		if n := st.ActionCounts[action]; n > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", action, n)
		}
	}
	for _, tp := range st.TopPositive {
		fmt.Fprintf(w, "  + %s: %s (%+.2f)\n", tp.Category, tp.Value, tp.Net)
	}
	for _, tn := range st.TopNegative {
		fmt.Fprintf(w, "  - %s: %s (%+.2f)\n", tn.Category, tn.Value, tn.Net)
	}
}

// printPreferences writes the learned weights in canonical category order.
func printPreferences(w io.Writer, prefs []types.Preference) {
	if len(prefs) == 0 {
		fmt.Fprintln(w, "no preferences learned yet")
		return
	}
	for _, p := range prefs {
		fmt.Fprintf(w, "%-12s %-24s net %+.2f (pos %.2f, neg %.2f)\n",
			p.Category, p.Value, p.Net(), p.Positive, p.Negative)
	}
}

// defaultExportName builds the timestamped default export filename.
func defaultExportName(ts time.Time) string {
	return fmt.Sprintf("scoutline-export-%s.json", ts.Format("20060102-150405"))
}
