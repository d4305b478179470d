package extract

import (
	"time"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/schema"
)

// PercentGridExtractor handles grids that already carry market percentages
// (draw %, over 1.5/2.5 %, BTTS %) as first-class columns. Odds may arrive
// as a compact "lines" cell; when explicit probabilities are missing they
// are derived from the odds as normalized implied probabilities.
type PercentGridExtractor struct {
	Now func() time.Time
}

func (e *PercentGridExtractor) Tag() FormatTag { return FormatPercentGrid }

func (e *PercentGridExtractor) Extract(in Input) (Result, error) {
	grid, ok := in.Sheets[MainSheet]
	if !ok || len(grid) == 0 {
		return Result{}, ErrNoRows
	}

	headerIdx := schema.FindHeaderRow(grid)
	headers := schema.BuildHeaderMap(grid[headerIdx])
	builder := newBatchBuilder(in)

	for i := headerIdx + 1; i < len(grid); i++ {
		row := grid[i]
		home, away, ok := resolveTeams(row, headers)
		if !ok {
			builder.skip()
			continue
		}

		leagueName := schema.ReadByAlias(row, headers, leagueAliases...)
		if leagueName == "" {
			leagueName = "Uncategorized"
		}
		leagueID := builder.league(leagueName, schema.ReadByAlias(row, headers, countryAliases...))

		odds := readOdds(row, headers)
		if odds.IsZero() {
			odds = parseLines(schema.ReadByAlias(row, headers, linesAliases...))
		}

		prediction := readPrediction(row, headers)
		if prediction.IsZero() {
			prediction = impliedProbabilities(odds)
		}

		over15 := schema.ParsePercent(schema.ReadByHeaderContains(row, headers, over15Aliases...), 0)
		over25 := schema.ParsePercent(schema.ReadByHeaderContains(row, headers, over25Aliases...), 0)

		overUnder := readOverUnder(row, headers)
		if overUnder.IsZero() {
			// The 2.5 line is the grid's native market; 1.5 only rides along
			// as a monitor detail below.
			if over25 > 0 {
				overUnder = match.OverUnder{Line: 2.5, OverPct: over25, UnderPct: match.ClampPercent(100 - over25)}
			}
		}

		var monitor []match.MonitorDetail
		if over15 > 0 {
			monitor = append(monitor, match.MonitorDetail{Label: "Over 1.5", Value: schema.CellString(over15) + "%"})
		}

		expected := readExpectedScore(row, headers)
		m := match.Match{
			ID:             matchID(in.SportID, leagueID, home, away, i, e.Tag()),
			SportID:        in.SportID,
			LeagueID:       leagueID,
			LeagueName:     leagueName,
			HomeTeam:       home,
			AwayTeam:       away,
			KickoffAt:      readKickoff(row, headers, e.Now),
			Odds:           odds,
			Prediction:     prediction,
			ExpectedScore:  expected,
			OverUnder:      overUnder,
			BTTSPct:        schema.ParsePercent(schema.ReadByAlias(row, headers, bttsAliases...), 0),
			TopScores:      BuildTopScores(expected),
			MonitorDetails: monitor,
		}

		builder.add(m)
	}

	return builder.result()
}
