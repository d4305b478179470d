package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/schema"
)

func TestMainListExtractorSectionContext(t *testing.T) {
	t.Parallel()

	main := schema.Grid{
		{"Game", "Kickoff", "Home Win %", "Away Win %"},
		{"Premier League", "", "", ""},
		{"Arsenal vs Chelsea", "2025-03-02T15:00:00Z", "40", "35"},
		{"Liverpool vs Everton", "2025-03-02T17:30:00Z", "60", "20"},
		{"Serie A", "", "", ""},
		{"Milan - Inter", "2025-03-02T19:45:00Z", "33", "33"},
	}

	e := &MainListExtractor{Now: fixedNow}
	res, err := e.Extract(Input{
		SportID:   "soccer",
		SportName: "Soccer",
		Source:    "mainlist-a",
		Sheets:    map[string]schema.Grid{MainSheet: main},
	})
	require.NoError(t, err)
	require.Len(t, res.Batch.Matches, 3)

	assert.Equal(t, "Premier League", res.Batch.Matches[0].LeagueName)
	assert.Equal(t, "Premier League", res.Batch.Matches[1].LeagueName)
	assert.Equal(t, "Serie A", res.Batch.Matches[2].LeagueName)
	assert.Equal(t, "soccer:serie-a", res.Batch.Matches[2].LeagueID)
	require.Len(t, res.Batch.Leagues, 2)
}

func TestMainListExtractorSideSheetJoin(t *testing.T) {
	t.Parallel()

	main := schema.Grid{
		{"Game", "Kickoff"},
		{"Premier League", ""},
		{"Arsenal vs Chelsea", "2025-03-02T15:00:00Z"},
	}
	spreads := schema.Grid{
		{"Game", "Spread", "Value"},
		// Reversed orientation on purpose: the join must still land.
		{"Chelsea vs Arsenal", "+0.5", "High"},
	}

	e := &MainListExtractor{Now: fixedNow}
	res, err := e.Extract(Input{
		SportID:   "soccer",
		SportName: "Soccer",
		Source:    "mainlist-a",
		Sheets: map[string]schema.Grid{
			MainSheet: main,
			"spreads": spreads,
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Batch.Matches, 1)

	details := res.Batch.Matches[0].MonitorDetails
	assert.Contains(t, details, match.MonitorDetail{Label: "Spread", Value: "+0.5"})
	assert.Contains(t, details, match.MonitorDetail{Label: "Value", Value: "High"})
}

func TestMainListExtractorDetailsDeduped(t *testing.T) {
	t.Parallel()

	main := schema.Grid{
		{"Game", "Kickoff"},
		{"League X", ""},
		{"A vs B", "2025-03-02"},
	}
	side := schema.Grid{
		{"Game", "Note"},
		{"A vs B", "watch corners"},
		{"B vs A", "Watch Corners"}, // same detail, different case and side
	}

	e := &MainListExtractor{Now: fixedNow}
	res, err := e.Extract(Input{
		SportID: "soccer",
		Source:  "s",
		Sheets:  map[string]schema.Grid{MainSheet: main, "notes": side},
	})
	require.NoError(t, err)

	details := res.Batch.Matches[0].MonitorDetails
	require.Len(t, details, 1)
	assert.Equal(t, "Note", details[0].Label)
}

func TestMainListExtractorSideSheetOrderStable(t *testing.T) {
	t.Parallel()

	main := schema.Grid{
		{"Game", "Kickoff"},
		{"League X", ""},
		{"A vs B", "2025-03-02"},
	}
	spreads := schema.Grid{
		{"Game", "Spread"},
		{"A vs B", "+0.5"},
	}
	totals := schema.Grid{
		{"Game", "Total"},
		{"A vs B", "2.5"},
	}

	e := &MainListExtractor{Now: fixedNow}
	in := Input{
		SportID: "soccer",
		Source:  "s",
		Sheets: map[string]schema.Grid{
			MainSheet: main,
			"totals":  totals,
			"spreads": spreads,
		},
	}

	want := []match.MonitorDetail{
		{Label: "Spread", Value: "+0.5"},
		{Label: "Total", Value: "2.5"},
	}
	// Sheets walk in name order, so the concatenation never flips between runs.
	for i := 0; i < 20; i++ {
		res, err := e.Extract(in)
		require.NoError(t, err)
		require.Len(t, res.Batch.Matches, 1)
		assert.Equal(t, want, res.Batch.Matches[0].MonitorDetails)
	}
}
