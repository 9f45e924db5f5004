package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scoutline/scoutline/internal/embed"
	"github.com/scoutline/scoutline/internal/feature"
	"github.com/scoutline/scoutline/internal/ledger"
	"github.com/scoutline/scoutline/internal/scoring"
	"github.com/scoutline/scoutline/internal/storage"
	"github.com/scoutline/scoutline/pkg/types"
)

// Feedback records a LIKE, DISLIKE, SAVE or SKIP on a candidate. LIKE and
// DISLIKE require a rationale; validation happens before any mutation, so a
// rejected call leaves the session untouched. The stored ledger event is
// returned with its ID, reward and timestamp stamped.
func (e *Engine) Feedback(ctx context.Context, entity types.Entity, action types.Action, rationale string) (*types.InteractionEvent, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: entity is required", storage.ErrInvalidInput)
	}
	if !isFeedbackAction(action) {
		return nil, fmt.Errorf("%w: %q is not a feedback action", storage.ErrInvalidInput, action)
	}
	rationale = strings.TrimSpace(rationale)
	if rationale == "" && (action == types.ActionLike || action == types.ActionDislike) {
		return nil, fmt.Errorf("%w: a rationale is required for %s", storage.ErrInvalidInput, action)
	}

	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	tuple := feature.Extract(entity)
	switch action {
	case types.ActionLike:
		e.prefs.Update(tuple, true, rationale)
		if vec := e.embedder.Embed(tuple.Text); tuple.EntityID != "" && hasSignal(vec) {
			e.likedEmbeddings[tuple.EntityID] = vec
		}
	case types.ActionSave:
		e.prefs.Update(tuple, true, rationale)
	case types.ActionDislike:
		e.prefs.Update(tuple, false, rationale)
	case types.ActionSkip:
		// Ledger only: a skip is too weak a signal to move the weights.
	}

	stored := e.ledger.Append(types.InteractionEvent{
		Action:     action,
		EntityID:   tuple.EntityID,
		EntityKind: tuple.Kind,
		EntityName: tuple.Name,
		Rationale:  rationale,
	})
	e.cumulativeReward += stored.Reward
	e.schedulePersistLocked()
	callback := e.onEvent
	e.mu.Unlock()

	e.fireOnEvent(callback, stored)
	return &stored, nil
}

// Annotate attaches a free-text note to a candidate. The note reinforces the
// candidate's features positively and lands in the ledger as an ANNOTATION
// event with zero reward.
func (e *Engine) Annotate(ctx context.Context, entity types.Entity, note string) (*types.InteractionEvent, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: entity is required", storage.ErrInvalidInput)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("%w: a note is required", storage.ErrInvalidInput)
	}

	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	tuple := feature.Extract(entity)
	e.prefs.Update(tuple, true, note)

	stored := e.ledger.Append(types.InteractionEvent{
		Action:     types.ActionAnnotation,
		EntityID:   tuple.EntityID,
		EntityKind: tuple.Kind,
		EntityName: tuple.Name,
		Rationale:  note,
	})
	e.cumulativeReward += stored.Reward
	e.schedulePersistLocked()
	callback := e.onEvent
	e.mu.Unlock()

	e.fireOnEvent(callback, stored)
	return &stored, nil
}

// RecordInput logs a raw voice or text input in the ledger without touching
// the preference model.
func (e *Engine) RecordInput(ctx context.Context, kind types.Action, text string) (*types.InteractionEvent, error) {
	if kind != types.ActionVoiceInput && kind != types.ActionTextInput {
		return nil, fmt.Errorf("%w: %q is not an input action", storage.ErrInvalidInput, kind)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: input text is required", storage.ErrInvalidInput)
	}

	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	stored := e.ledger.Append(types.InteractionEvent{
		Action:    kind,
		Rationale: text,
	})
	e.cumulativeReward += stored.Reward
	e.schedulePersistLocked()
	callback := e.onEvent
	e.mu.Unlock()

	e.fireOnEvent(callback, stored)
	return &stored, nil
}

// PreferPair records that the operator chose one candidate over another.
// Pairs feed the preference-pairs export; they never move the per-category
// weights here. Replay happens in the downstream training process.
func (e *Engine) PreferPair(ctx context.Context, winner, loser types.Entity, rationale string) (*types.PairPreference, error) {
	if winner == nil || loser == nil {
		return nil, fmt.Errorf("%w: both candidates are required", storage.ErrInvalidInput)
	}
	rationale = strings.TrimSpace(rationale)
	if rationale == "" {
		return nil, fmt.Errorf("%w: a rationale is required for a pair preference", storage.ErrInvalidInput)
	}

	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	w := feature.Extract(winner)
	l := feature.Extract(loser)
	pair := types.PairPreference{
		WinnerID:   w.EntityID,
		WinnerName: w.Name,
		LoserID:    l.EntityID,
		LoserName:  l.Name,
		Rationale:  rationale,
		Timestamp:  time.Now().UTC(),
	}
	e.pairs = append(e.pairs, pair)

	stored := e.ledger.Append(types.InteractionEvent{
		Action:     types.ActionPairPreference,
		EntityID:   w.EntityID,
		EntityKind: w.Kind,
		EntityName: w.Name,
		Rationale:  rationale,
	})
	e.cumulativeReward += stored.Reward
	e.schedulePersistLocked()
	callback := e.onEvent
	e.mu.Unlock()

	e.fireOnEvent(callback, stored)
	return &pair, nil
}

// Score evaluates one candidate against the current model without mutating
// anything: scoring the same candidate twice in a row returns an identical
// result.
func (e *Engine) Score(ctx context.Context, entity types.Entity) (scoring.Result, error) {
	if entity == nil {
		return scoring.Result{}, fmt.Errorf("%w: entity is required", storage.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return scoring.Result{}, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	return e.scoreLocked(entity), nil
}

func (e *Engine) scoreLocked(entity types.Entity) scoring.Result {
	tuple := feature.Extract(entity)
	vec := e.embedder.Embed(tuple.Text)
	return e.scorer.Score(tuple, e.prefs.All(), e.likedEmbeddings, vec)
}

// Rank scores a batch and orders it best-first. The sort is stable: equal
// scores keep their input order. Nil entries are skipped.
func (e *Engine) Rank(ctx context.Context, entities []types.Entity) ([]Ranked, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	snapshot := e.prefs.All()
	results := make([]Ranked, 0, len(entities))
	for _, entity := range entities {
		if entity == nil {
			continue
		}
		tuple := feature.Extract(entity)
		vec := e.embedder.Embed(tuple.Text)
		results = append(results, Ranked{Result: e.scorer.Score(tuple, snapshot, e.likedEmbeddings, vec)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}

// SimilarLiked compares a candidate's embedding against every liked profile,
// most similar first. limit > 0 truncates the result.
func (e *Engine) SimilarLiked(ctx context.Context, entity types.Entity, limit int) ([]SimilarResult, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: entity is required", storage.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	tuple := feature.Extract(entity)
	vec := e.embedder.Embed(tuple.Text)

	results := make([]SimilarResult, 0, len(e.likedEmbeddings))
	for id, liked := range e.likedEmbeddings {
		results = append(results, SimilarResult{
			EntityID:   id,
			Name:       e.nameForLocked(id),
			Similarity: embed.Cosine(vec, liked),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].EntityID < results[j].EntityID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Stats reports session counters and the strongest learned preferences.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return Stats{}, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	stats := Stats{
		SessionID:        e.config.SessionID,
		State:            e.state,
		Events:           e.ledger.Len(),
		ActionCounts:     e.ledger.Totals(),
		Preferences:      e.prefs.Len(),
		Pairs:            len(e.pairs),
		LikedProfiles:    len(e.likedEmbeddings),
		CumulativeReward: e.cumulativeReward,
	}

	for _, pref := range e.prefs.All() {
		net := pref.Net()
		switch {
		case net > 0:
			stats.TopPositive = append(stats.TopPositive, TopPreference{Category: pref.Category, Value: pref.Value, Net: net})
		case net < 0:
			stats.TopNegative = append(stats.TopNegative, TopPreference{Category: pref.Category, Value: pref.Value, Net: net})
		}
	}
	sort.SliceStable(stats.TopPositive, func(i, j int) bool {
		return stats.TopPositive[i].Net > stats.TopPositive[j].Net
	})
	sort.SliceStable(stats.TopNegative, func(i, j int) bool {
		return stats.TopNegative[i].Net < stats.TopNegative[j].Net
	})
	if len(stats.TopPositive) > maxTopPreferences {
		stats.TopPositive = stats.TopPositive[:maxTopPreferences]
	}
	if len(stats.TopNegative) > maxTopPreferences {
		stats.TopNegative = stats.TopNegative[:maxTopPreferences]
	}

	return stats, nil
}

// Preferences returns the learned preference snapshot in canonical order.
func (e *Engine) Preferences(ctx context.Context) ([]types.Preference, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	return e.prefs.All(), nil
}

// Events returns a filtered copy of the ledger, oldest first. The copy is
// independent: callers can iterate it as often as they like.
func (e *Engine) Events(ctx context.Context, filter ledger.EventFilter) ([]types.InteractionEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	return e.ledger.Filter(filter), nil
}

// Export assembles the preference-pairs training document.
func (e *Engine) Export(ctx context.Context) (*types.ExportDocument, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	events := e.ledger.Events()
	if events == nil {
		events = []types.InteractionEvent{}
	}

	return &types.ExportDocument{
		Format:    types.ExportFormatPreferencePairs,
		Timestamp: time.Now().UTC(),
		Stats: types.ExportStats{
			Likes:            e.ledger.Count(types.ActionLike),
			Dislikes:         e.ledger.Count(types.ActionDislike),
			Pairs:            len(e.pairs),
			CumulativeReward: e.cumulativeReward,
		},
		Pairs:       append([]types.PairPreference{}, e.pairs...),
		Events:      events,
		Preferences: e.prefs.All(),
	}, nil
}

// CumulativeReward returns the running reward total. Unlike the ledger it is
// never trimmed, so it reflects every event since the last clear-history.
func (e *Engine) CumulativeReward(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return 0, fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	return e.cumulativeReward, nil
}

// ClearHistory wipes the learned model: preferences, ledger, pairs, liked
// embeddings and reward. The session stays active and the emptied state is
// persisted like any other mutation.
func (e *Engine) ClearHistory(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return fmt.Errorf("engine not started")
	}
	e.ensureActiveLocked(ctx)

	e.prefs.Reset()
	e.ledger.Reset()
	e.likedEmbeddings = make(map[string][]float64)
	e.pairs = nil
	e.cumulativeReward = 0
	e.schedulePersistLocked()

	e.logger.Printf("session %s history cleared", e.config.SessionID)
	return nil
}

// nameForLocked recovers a display name for a liked entity from its most
// recent ledger event. Callers must hold e.mu.
func (e *Engine) nameForLocked(entityID string) string {
	matches := e.ledger.Filter(ledger.EventFilter{EntityID: entityID, Limit: 1})
	if len(matches) == 0 {
		return ""
	}
	return matches[0].EntityName
}

// isFeedbackAction reports whether the action is one of the four direct
// feedback verbs (pairs, annotations and inputs have their own entry points).
func isFeedbackAction(action types.Action) bool {
	switch action {
	case types.ActionLike, types.ActionDislike, types.ActionSave, types.ActionSkip:
		return true
	default:
		return false
	}
}
