package postgres

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/scoutline/internal/storage"
	"github.com/scoutline/scoutline/pkg/types"
)

// ---- Serialization unit tests (no database required) ----

func TestSerializeEmbedding_RoundTrip(t *testing.T) {
	original := []float64{0.1, -0.5, 0.0, 1.0, math.Pi}

	blob := serializeEmbedding(original)
	require.Len(t, blob, len(original)*8)

	decoded, err := deserializeEmbedding(blob, len(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSerializeEmbedding_Empty(t *testing.T) {
	blob := serializeEmbedding(nil)
	assert.Empty(t, blob)
}

func TestDeserializeEmbedding_SizeMismatch(t *testing.T) {
	blob := serializeEmbedding([]float64{1, 2, 3})

	_, err := deserializeEmbedding(blob, 4)
	assert.Error(t, err)
}

func TestDeserializeEmbedding_InvalidDimension(t *testing.T) {
	_, err := deserializeEmbedding([]byte{}, 0)
	assert.Error(t, err)
}

// ---- Integration tests (require a running PostgreSQL) ----

// postgresTestDSN returns the DSN for the test database.
// If POSTGRES_TEST_DSN is not set, tests are skipped.
func postgresTestDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set; skipping PostgreSQL integration tests")
	}
	return dsn
}

// newTestStore creates a fresh SessionStore connected to the test database
// and registers cleanup.
func newTestStore(t *testing.T) *SessionStore {
	t.Helper()

	store, err := NewSessionStore(postgresTestDSN(t))
	require.NoError(t, err, "NewSessionStore should succeed")

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func sampleState(sessionID string) *types.SessionState {
	state := types.NewSessionState(sessionID)
	state.State = types.SessionActive
	state.Preferences = []types.Preference{
		{
			Category:        types.CategoryIndustry,
			Value:           "AI/ML",
			Positive:        0.45,
			PositiveReasons: []string{"strong team"},
			UpdatedAt:       time.Now().UTC(),
		},
	}
	state.LikedEmbeddings = map[string][]float64{
		"person-1": {0.5, 0.5, 0.5, 0.5},
		"person-2": {1, 0, 0, 0},
	}
	state.Events = []types.InteractionEvent{
		{
			ID:        "evt-1",
			Action:    types.ActionLike,
			EntityID:  "person-1",
			Reward:    1,
			Timestamp: time.Now().UTC(),
		},
	}
	state.CumulativeReward = 1
	return state
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := sampleState("pg-roundtrip")
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx, "pg-roundtrip")
	require.NoError(t, err)

	assert.Equal(t, in.SessionID, out.SessionID)
	assert.Equal(t, in.State, out.State)
	assert.Equal(t, in.Preferences, out.Preferences)
	assert.Equal(t, in.LikedEmbeddings, out.LikedEmbeddings)
	assert.Len(t, out.Events, 1)
	assert.Equal(t, in.CumulativeReward, out.CumulativeReward)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "never-saved")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionStore_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := sampleState("pg-upsert")
	require.NoError(t, store.Save(ctx, state))

	state.CumulativeReward = 3
	state.LikedEmbeddings = map[string][]float64{"person-3": {0, 1, 0, 0}}
	require.NoError(t, store.Save(ctx, state))

	out, err := store.Load(ctx, "pg-upsert")
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.CumulativeReward)
	assert.Equal(t, state.LikedEmbeddings, out.LikedEmbeddings)
}

func TestSessionStore_EmbeddingProjection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	state := sampleState("pg-projection")
	require.NoError(t, store.Save(ctx, state))

	vecs, err := store.LikedEmbeddings(ctx, "pg-projection")
	require.NoError(t, err)
	assert.Equal(t, state.LikedEmbeddings, vecs)

	// Clearing history must empty the projection too.
	state.LikedEmbeddings = map[string][]float64{}
	require.NoError(t, store.Save(ctx, state))

	vecs, err = store.LikedEmbeddings(ctx, "pg-projection")
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestSessionStore_SaveInvalid(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Save(context.Background(), &types.SessionState{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
