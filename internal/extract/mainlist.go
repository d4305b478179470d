package extract

import (
	"sort"
	"time"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/identity"
	"github.com/oddsight/oddsight/internal/schema"
)

// MainListExtractor handles the main-list plus side-sheet shape: the primary
// sheet interleaves section-header rows (league names) with fixture rows,
// and auxiliary sheets (spreads, totals, value bets) are joined onto
// fixtures by normalized team pair as MonitorDetail entries.
type MainListExtractor struct {
	Now func() time.Time
}

func (e *MainListExtractor) Tag() FormatTag { return FormatMainList }

func (e *MainListExtractor) Extract(in Input) (Result, error) {
	grid, ok := in.Sheets[MainSheet]
	if !ok || len(grid) == 0 {
		return Result{}, ErrNoRows
	}

	details := e.collectSideDetails(in)

	headerIdx := schema.FindHeaderRow(grid)
	headers := schema.BuildHeaderMap(grid[headerIdx])
	builder := newBatchBuilder(in)

	currentLeague := ""
	for i := headerIdx + 1; i < len(grid); i++ {
		row := grid[i]

		// A populated first cell with an otherwise empty row switches the
		// league context for every data row until the next section header.
		if schema.IsSectionHeader(row) {
			currentLeague = schema.CellString(row[0])
			continue
		}

		home, away, ok := resolveTeams(row, headers)
		if !ok {
			builder.skip()
			continue
		}

		leagueName := currentLeague
		if leagueName == "" {
			leagueName = schema.ReadByAlias(row, headers, leagueAliases...)
		}
		if leagueName == "" {
			leagueName = "Uncategorized"
		}
		leagueID := builder.league(leagueName, "")

		expected := readExpectedScore(row, headers)
		m := match.Match{
			ID:             matchID(in.SportID, leagueID, home, away, i, e.Tag()),
			SportID:        in.SportID,
			LeagueID:       leagueID,
			LeagueName:     leagueName,
			HomeTeam:       home,
			AwayTeam:       away,
			KickoffAt:      readKickoff(row, headers, e.Now),
			Confidence:     schema.ParsePercent(schema.ReadByAlias(row, headers, confidenceAliases...), 0),
			Trust:          schema.ParsePercent(schema.ReadByAlias(row, headers, trustAliases...), 0),
			Odds:           readOdds(row, headers),
			Prediction:     readPrediction(row, headers),
			ExpectedScore:  expected,
			Handicap:       readHandicap(row, headers),
			OverUnder:      readOverUnder(row, headers),
			BTTSPct:        schema.ParsePercent(schema.ReadByAlias(row, headers, bttsAliases...), 0),
			Signals:        splitSignals(schema.ReadByAlias(row, headers, signalAliases...)),
			TopScores:      BuildTopScores(expected),
			MonitorDetails: match.DedupeDetails(details[identity.PairKey(home, away)]),
		}

		builder.add(m)
	}

	return builder.result()
}

// collectSideDetails parses every auxiliary sheet into monitor details keyed
// by the normalized team pair in both orientations, so the join succeeds no
// matter which side the side sheet lists first.
func (e *MainListExtractor) collectSideDetails(in Input) map[string][]match.MonitorDetail {
	out := make(map[string][]match.MonitorDetail)

	// Sheet-name order so detail concatenation is stable across runs.
	names := make([]string, 0, len(in.Sheets))
	for name := range in.Sheets {
		if name == MainSheet || len(in.Sheets[name]) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		grid := in.Sheets[name]

		headerIdx := schema.FindHeaderRow(grid)
		headerRow := grid[headerIdx]
		headers := schema.BuildHeaderMap(headerRow)

		teamColumns := make(map[int]struct{})
		for _, alias := range append(append(append([]string{}, homeTeamAliases...), awayTeamAliases...), gameAliases...) {
			if idx, ok := headers[schema.NormalizeHeader(alias)]; ok {
				teamColumns[idx] = struct{}{}
			}
		}

		for i := headerIdx + 1; i < len(grid); i++ {
			row := grid[i]
			home, away, ok := resolveTeams(row, headers)
			if !ok {
				continue
			}

			rowDetails := make([]match.MonitorDetail, 0, len(row))
			for col, cell := range row {
				if _, isTeam := teamColumns[col]; isTeam {
					continue
				}
				value := schema.CellString(cell)
				if value == "" || col >= len(headerRow) {
					continue
				}
				label := schema.CellString(headerRow[col])
				if label == "" {
					label = name
				}
				rowDetails = append(rowDetails, match.MonitorDetail{Label: label, Value: value})
			}
			if len(rowDetails) == 0 {
				continue
			}

			forward := identity.PairKey(home, away)
			reverse := identity.PairKey(away, home)
			out[forward] = append(out[forward], rowDetails...)
			out[reverse] = append(out[reverse], rowDetails...)
		}
	}

	return out
}
