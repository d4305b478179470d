package extract

import (
	"math"
	"sort"

	"github.com/oddsight/oddsight/internal/domain/match"
)

const (
	topScoreLimit  = 5
	topScoreWindow = 2
	topScoreDecay  = 0.55
)

// BuildTopScores fans a small correct-score distribution out around the
// expected score. Display-only, but deterministic and monotonically
// decreasing in probability away from the peak so it stays testable.
func BuildTopScores(expected match.ScorePair) []match.TopScore {
	peakHome := roundScore(expected.Home)
	peakAway := roundScore(expected.Away)

	type cell struct {
		home, away int
		weight     float64
	}

	cells := make([]cell, 0, (2*topScoreWindow+1)*(2*topScoreWindow+1))
	total := 0.0
	for h := peakHome - topScoreWindow; h <= peakHome+topScoreWindow; h++ {
		if h < 0 {
			continue
		}
		for a := peakAway - topScoreWindow; a <= peakAway+topScoreWindow; a++ {
			if a < 0 {
				continue
			}
			distance := abs(h-peakHome) + abs(a-peakAway)
			weight := math.Pow(topScoreDecay, float64(distance))
			cells = append(cells, cell{home: h, away: a, weight: weight})
			total += weight
		}
	}
	if total == 0 {
		return nil
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].weight != cells[j].weight {
			return cells[i].weight > cells[j].weight
		}
		if cells[i].home != cells[j].home {
			return cells[i].home < cells[j].home
		}
		return cells[i].away < cells[j].away
	})

	limit := topScoreLimit
	if limit > len(cells) {
		limit = len(cells)
	}

	out := make([]match.TopScore, 0, limit)
	for _, c := range cells[:limit] {
		out = append(out, match.TopScore{
			Home:        c.home,
			Away:        c.away,
			Probability: roundPct(100 * c.weight / total),
		})
	}

	return out
}

func roundScore(v float64) int {
	if v < 0 {
		return 0
	}
	return int(math.Round(v))
}

func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
