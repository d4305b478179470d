package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/schema"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func scorePair(home, away float64) match.ScorePair {
	return match.ScorePair{Home: home, Away: away}
}

func TestGenericExtractor(t *testing.T) {
	t.Parallel()

	grid := schema.Grid{
		{"exported report"},
		{"Game", "League", "Kickoff", "Home Win %", "Away Win %", "Hot Trend", "Confidence"},
		{"Real Madrid vs Barcelona", "La Liga", "2025-03-02T20:00:00Z", "45%", "30%", "Home streak, Over pace", "80"},
		{"Lyon v Lille", "Ligue 1", "2025-03-02", "0.50", "0.25", "", "70"},
		{"", "La Liga", "", "", "", "", ""}, // no team pair -> skipped
	}

	e := &GenericExtractor{Now: fixedNow}
	res, err := e.Extract(Input{
		SportID:   "soccer",
		SportName: "Soccer",
		Source:    "sheet-a",
		Sheets:    map[string]schema.Grid{MainSheet: grid},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Batch.Matches, 2)

	first := res.Batch.Matches[0]
	assert.Equal(t, "Real Madrid", first.HomeTeam)
	assert.Equal(t, "Barcelona", first.AwayTeam)
	assert.Equal(t, "soccer:la-liga", first.LeagueID)
	assert.Equal(t, "2025-03-02T20:00:00Z", first.KickoffAt)
	assert.Equal(t, 45.0, first.Prediction.Home)
	assert.Equal(t, 30.0, first.Prediction.Away)
	// Draw derived as the remainder when the sheet has no draw column.
	assert.Equal(t, 25.0, first.Prediction.Draw)
	assert.Equal(t, []string{"Home streak", "Over pace"}, first.Signals)
	assert.Equal(t, 80.0, first.Confidence)

	second := res.Batch.Matches[1]
	assert.Equal(t, "Lyon", second.HomeTeam)
	assert.Equal(t, 50.0, second.Prediction.Home)

	// Leagues and sports carry derived counts; nothing with zero matches.
	require.Len(t, res.Batch.Leagues, 2)
	for _, l := range res.Batch.Leagues {
		assert.Equal(t, 1, l.MatchCount)
	}
	require.Len(t, res.Batch.Sports, 1)
	assert.Equal(t, 2, res.Batch.Sports[0].MatchCount)
}

func TestGenericExtractorDeterministicIDs(t *testing.T) {
	t.Parallel()

	grid := schema.Grid{
		{"Game", "League"},
		{"A vs B", "X League"},
	}
	in := Input{SportID: "soccer", SportName: "Soccer", Source: "s", Sheets: map[string]schema.Grid{MainSheet: grid}}

	e := &GenericExtractor{Now: fixedNow}
	first, err := e.Extract(in)
	require.NoError(t, err)
	second, err := e.Extract(in)
	require.NoError(t, err)

	assert.Equal(t, first.Batch.Matches[0].ID, second.Batch.Matches[0].ID)
}

func TestGenericExtractorRobustness(t *testing.T) {
	t.Parallel()

	// One malformed row among nine well-formed ones: nine matches, one skip.
	grid := schema.Grid{{"Game", "League"}}
	for i := 0; i < 4; i++ {
		grid = append(grid, []any{string(rune('A'+i)) + "1 vs " + string(rune('A'+i)) + "2", "L"})
	}
	grid = append(grid, []any{"totally malformed", "L"})
	for i := 4; i < 9; i++ {
		grid = append(grid, []any{string(rune('A'+i)) + "1 vs " + string(rune('A'+i)) + "2", "L"})
	}

	e := &GenericExtractor{Now: fixedNow}
	res, err := e.Extract(Input{SportID: "soccer", SportName: "Soccer", Source: "s", Sheets: map[string]schema.Grid{MainSheet: grid}})
	require.NoError(t, err)

	assert.Len(t, res.Batch.Matches, 9)
	assert.Equal(t, 1, res.Skipped)
}

func TestGenericExtractorNoRows(t *testing.T) {
	t.Parallel()

	e := &GenericExtractor{Now: fixedNow}

	_, err := e.Extract(Input{SportID: "soccer", Sheets: map[string]schema.Grid{}})
	assert.ErrorIs(t, err, ErrNoRows)

	grid := schema.Grid{
		{"Game", "League"},
		{"garbage", "L"},
	}
	_, err = e.Extract(Input{SportID: "soccer", Source: "s", Sheets: map[string]schema.Grid{MainSheet: grid}})
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestBuildTopScores(t *testing.T) {
	t.Parallel()

	scores := BuildTopScores(scorePair(2.2, 0.8))
	require.NotEmpty(t, scores)

	// Peak sits at the rounded expected score.
	assert.Equal(t, 2, scores[0].Home)
	assert.Equal(t, 1, scores[0].Away)

	// Probabilities decrease monotonically away from the peak.
	for i := 1; i < len(scores); i++ {
		assert.LessOrEqual(t, scores[i].Probability, scores[i-1].Probability)
	}

	// Deterministic.
	assert.Equal(t, scores, BuildTopScores(scorePair(2.2, 0.8)))
}
