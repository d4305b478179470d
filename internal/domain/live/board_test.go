package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsight/oddsight/internal/fuzzy"
)

func TestFeedUpsertSymmetry(t *testing.T) {
	t.Parallel()

	feed := NewFeed()
	feed.Upsert("Ajax", "PSV", ScoreDetail{Score: "2-0", Phase: PhaseLive})

	board := NewBoard(fuzzy.DefaultThresholds())
	board.Apply(feed)

	forward, ok := board.Resolve("Ajax", "PSV")
	require.True(t, ok)
	assert.Equal(t, "2-0", forward.Score)

	// Queried from the other side the score comes back flipped.
	reversed, ok := board.Resolve("PSV", "Ajax")
	require.True(t, ok)
	assert.Equal(t, "0-2", reversed.Score)
	assert.Equal(t, PhaseLive, reversed.Phase)
	assert.Equal(t, "LIVE", reversed.Status)
}

func TestMergeFeedsPrefersLivePhase(t *testing.T) {
	t.Parallel()

	base := NewFeed()
	base.Upsert("A", "B", ScoreDetail{Score: "1-0", Phase: PhaseLive})

	incoming := NewFeed()
	incoming.Upsert("A", "B", ScoreDetail{Score: "1-0", Phase: PhaseFinal})

	merged := MergeFeeds(base, incoming)
	board := NewBoard(fuzzy.DefaultThresholds())
	board.Apply(merged)

	got, ok := board.Resolve("A", "B")
	require.True(t, ok)
	assert.Equal(t, PhaseLive, got.Phase)
}

func TestMergeFeedsFinalThenLive(t *testing.T) {
	t.Parallel()

	// A "final" report followed by a "live" one ends live.
	base := NewFeed()
	base.Upsert("A", "B", ScoreDetail{Score: "1-0", Phase: PhaseFinal})

	incoming := NewFeed()
	incoming.Upsert("A", "B", ScoreDetail{Score: "1-1", Phase: PhaseLive})

	merged := MergeFeeds(base, incoming)
	e := merged.entries["a|b"]
	assert.Equal(t, PhaseLive, e.detail.Phase)
	assert.Equal(t, "1-1", e.detail.Score)
}

func TestBoardApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	feed := NewFeed()
	feed.Upsert("Ajax", "PSV", ScoreDetail{Score: "2-0", Phase: PhaseLive})
	feed.Upsert("Lyon", "Lille", ScoreDetail{Score: "0-0", Phase: PhaseUnknown})

	board := NewBoard(fuzzy.DefaultThresholds())
	board.Apply(feed)
	first, ok := board.Resolve("Ajax", "PSV")
	require.True(t, ok)

	// Replaying the same poll result changes nothing.
	board.Apply(feed)
	second, ok := board.Resolve("Ajax", "PSV")
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, board.Len())
}

func TestBoardResolveFuzzy(t *testing.T) {
	t.Parallel()

	feed := NewFeed()
	feed.Upsert("Paris Saint-Germain", "Olympique Marseille", ScoreDetail{Score: "3-1", Phase: PhaseLive})

	board := NewBoard(fuzzy.DefaultThresholds())
	board.Apply(feed)

	got, ok := board.Resolve("PSG", "Marseille")
	require.True(t, ok)
	assert.Equal(t, "3-1", got.Score)
}

func TestBoardResolveMiss(t *testing.T) {
	t.Parallel()

	feed := NewFeed()
	feed.Upsert("Arsenal", "Tottenham", ScoreDetail{Score: "1-0", Phase: PhaseLive})

	board := NewBoard(fuzzy.DefaultThresholds())
	board.Apply(feed)

	_, ok := board.Resolve("Chelsea", "Everton")
	assert.False(t, ok)
}
