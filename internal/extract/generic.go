package extract

import (
	"time"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/schema"
)

// GenericExtractor handles the common one-row-per-fixture grid: dedicated
// team columns or a combined game column, probabilities behind alias lists,
// one free-text signal column.
type GenericExtractor struct {
	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (e *GenericExtractor) Tag() FormatTag { return FormatGeneric }

func (e *GenericExtractor) Extract(in Input) (Result, error) {
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

		expected := readExpectedScore(row, headers)
		m := match.Match{
			ID:            matchID(in.SportID, leagueID, home, away, i, e.Tag()),
			SportID:       in.SportID,
			LeagueID:      leagueID,
			LeagueName:    leagueName,
			HomeTeam:      home,
			AwayTeam:      away,
			KickoffAt:     readKickoff(row, headers, e.Now),
			Confidence:    schema.ParsePercent(schema.ReadByAlias(row, headers, confidenceAliases...), 0),
			Trust:         schema.ParsePercent(schema.ReadByAlias(row, headers, trustAliases...), 0),
			Odds:          readOdds(row, headers),
			Prediction:    readPrediction(row, headers),
			ExpectedScore: expected,
			Handicap:      readHandicap(row, headers),
			OverUnder:     readOverUnder(row, headers),
			BTTSPct:       schema.ParsePercent(schema.ReadByAlias(row, headers, bttsAliases...), 0),
			Signals:       splitSignals(schema.ReadByAlias(row, headers, signalAliases...)),
			PredictionBasis: splitSignals(
				schema.ReadByAlias(row, headers, basisAliases...),
			),
			TopScores: BuildTopScores(expected),
		}

		builder.add(m)
	}

	return builder.result()
}
