package extract

import (
	"strings"
	"time"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/schema"
)

// readOdds reads an explicit home/draw/away odds triplet. Missing sides
// stay zero; the merge engine treats an all-zero triplet as absent.
func readOdds(row []any, headers schema.HeaderMap) match.Triplet {
	return match.Triplet{
		Home: schema.ParseNumber(schema.ReadByAlias(row, headers, homeOddsAliases...), 0),
		Draw: schema.ParseNumber(schema.ReadByAlias(row, headers, drawOddsAliases...), 0),
		Away: schema.ParseNumber(schema.ReadByAlias(row, headers, awayOddsAliases...), 0),
	}
}

// readPrediction reads win probabilities in percentage points. When the
// sheet carries no usable draw column the value is derived as the remainder
// 100 - home - away; both paths are intentional (some providers publish an
// explicit draw column, some do not).
func readPrediction(row []any, headers schema.HeaderMap) match.Triplet {
	home := schema.ParsePercent(schema.ReadByAlias(row, headers, homePctAliases...), 0)
	away := schema.ParsePercent(schema.ReadByAlias(row, headers, awayPctAliases...), 0)
	draw := schema.ParsePercent(schema.ReadByAlias(row, headers, drawPctAliases...), 0)

	if draw == 0 && (home > 0 || away > 0) {
		draw = match.ClampPercent(100 - home - away)
	}

	return match.Triplet{Home: home, Draw: draw, Away: away}
}

// readExpectedScore accepts either dedicated per-side columns or a combined
// "2-1" style cell.
func readExpectedScore(row []any, headers schema.HeaderMap) match.ScorePair {
	pair := match.ScorePair{
		Home: schema.ParseNumber(schema.ReadByAlias(row, headers, expectedHomeAliases...), 0),
		Away: schema.ParseNumber(schema.ReadByAlias(row, headers, expectedAwayAliases...), 0),
	}
	if !pair.IsZero() {
		return pair
	}

	combined := schema.ReadByAlias(row, headers, expectedPairAliases...)
	if combined == "" {
		return pair
	}
	parts := strings.SplitN(combined, "-", 2)
	if len(parts) != 2 {
		parts = strings.SplitN(combined, ":", 2)
	}
	if len(parts) == 2 {
		pair.Home = schema.ParseNumber(parts[0], 0)
		pair.Away = schema.ParseNumber(parts[1], 0)
	}

	return pair
}

func readHandicap(row []any, headers schema.HeaderMap) match.ScorePair {
	return match.ScorePair{
		Home: schema.ParseNumber(schema.ReadByAlias(row, headers, handicapHomeAliases...), 0),
		Away: schema.ParseNumber(schema.ReadByAlias(row, headers, handicapAwayAliases...), 0),
	}
}

func readOverUnder(row []any, headers schema.HeaderMap) match.OverUnder {
	out := match.OverUnder{
		Line:     schema.ParseNumber(schema.ReadByAlias(row, headers, totalLineAliases...), 0),
		OverPct:  schema.ParsePercent(schema.ReadByAlias(row, headers, overPctAliases...), 0),
		UnderPct: schema.ParsePercent(schema.ReadByAlias(row, headers, underPctAliases...), 0),
	}
	if out.OverPct > 0 && out.UnderPct == 0 {
		out.UnderPct = match.ClampPercent(100 - out.OverPct)
	}

	return out
}

func readKickoff(row []any, headers schema.HeaderMap, now func() time.Time) string {
	raw := schema.ReadByAlias(row, headers, kickoffAliases...)
	return schema.ParseDate(raw, now).UTC().Format(time.RFC3339)
}

// impliedProbabilities converts an odds triplet to percentages via 1/odds,
// normalized so the three sides sum to 100.
func impliedProbabilities(odds match.Triplet) match.Triplet {
	if odds.Home <= 0 || odds.Draw <= 0 || odds.Away <= 0 {
		return match.Triplet{}
	}

	home := 1 / odds.Home
	draw := 1 / odds.Draw
	away := 1 / odds.Away
	total := home + draw + away

	return match.Triplet{
		Home: match.ClampPercent(100 * home / total),
		Draw: match.ClampPercent(100 * draw / total),
		Away: match.ClampPercent(100 * away / total),
	}
}

// parseLines reads a compact "2.10/3.40/3.60" odds cell.
func parseLines(raw string) match.Triplet {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return match.Triplet{}
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '/' || r == '|' || r == ';' || r == ' '
	})
	if len(parts) != 3 {
		return match.Triplet{}
	}

	return match.Triplet{
		Home: schema.ParseNumber(parts[0], 0),
		Draw: schema.ParseNumber(parts[1], 0),
		Away: schema.ParseNumber(parts[2], 0),
	}
}
