// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.HistoryConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRound() types.Round {
	return types.Round{
		Problem:    "reduce cold-start latency",
		Mechanisms: []string{"ant colonies route around failures", "mycelium pre-grows networks"},
		Connection: "both systems prepare capacity before demand arrives",
		Model:      "openai/gpt-4o",
		Ideas: []types.RankedIdea{
			{Idea: "pre-warm workers along predicted paths", Relevance: 9, Plausibility: 8, Reasoning: "direct"},
			{Idea: "speculative routing mesh", Relevance: 7, Plausibility: 6},
		},
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndLoadRound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRound(ctx, sampleRound()))

	rounds, err := store.Rounds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rounds, 1)

	got := rounds[0]
	assert.Equal(t, "reduce cold-start latency", got.Problem)
	assert.Equal(t, "openai/gpt-4o", got.Model)
	assert.Equal(t, []string{"ant colonies route around failures", "mycelium pre-grows networks"}, got.Mechanisms)
	require.Len(t, got.Ideas, 2)
	assert.Equal(t, "pre-warm workers along predicted paths", got.Ideas[0].Idea)
	assert.Equal(t, 17.0, got.Ideas[0].Combined())
	assert.Equal(t, "direct", got.Ideas[0].Reasoning)
	assert.Equal(t, 13.0, got.Ideas[1].Combined())
	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), got.Timestamp)
}

func TestRounds_NewestFirstAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, problem := range []string{"first", "second", "third"} {
		round := sampleRound()
		round.Problem = problem
		round.Timestamp = time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.SaveRound(ctx, round))
	}

	rounds, err := store.Rounds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "third", rounds[0].Problem)
	assert.Equal(t, "second", rounds[1].Problem)
}

func TestSearchIdeas(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRound(ctx, sampleRound()))

	hits, err := store.SearchIdeas(ctx, "routing", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "speculative routing mesh", hits[0].Idea.Idea)
	assert.Equal(t, "reduce cold-start latency", hits[0].Problem)

	hits, err = store.SearchIdeas(ctx, "submarine", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, store.SaveRound(ctx, sampleRound()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	defer reopened.Close()

	rounds, err := reopened.Rounds(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rounds, 1)
}
