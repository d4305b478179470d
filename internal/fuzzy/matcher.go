// Package fuzzy resolves a (home, away) query against keyed records despite
// inconsistent team naming across sources. Resolution runs a staged chain:
// exact key, alias/variant product, substring containment, then token-set
// similarity as a last resort. Below-threshold candidates resolve to
// nothing rather than a silently accepted low-confidence guess.
package fuzzy

import (
	"strings"

	"github.com/oddsight/oddsight/internal/identity"
)

// Thresholds tunes the similarity fallback. The defaults are empirically
// chosen against labeled name pairs, not derived; treat them as
// configuration.
type Thresholds struct {
	HomeWeight float64
	AwayWeight float64
	// BothMin qualifies a candidate when both side similarities clear it.
	BothMin float64
	// StrongSide/WeakSide qualify a candidate when one side is a near-exact
	// match and the other is at least weakly related (heavily abbreviated
	// opponents).
	StrongSide float64
	WeakSide   float64
	// MinScore is the floor the best qualifying candidate must still clear.
	MinScore float64
}

// DefaultThresholds returns the tuned production values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HomeWeight: 0.55,
		AwayWeight: 0.45,
		BothMin:    0.34,
		StrongSide: 0.78,
		WeakSide:   0.18,
		MinScore:   0.30,
	}
}

type entry[T any] struct {
	home, away           string // primary normalized
	homeTokens, awayTokens map[string]struct{}
	value                T
}

// Index holds records addressable by team pair under every variant spelling.
type Index[T any] struct {
	thresholds Thresholds
	exact      map[string]int
	entries    []entry[T]
}

// NewIndex builds an empty index with the given thresholds.
func NewIndex[T any](thresholds Thresholds) *Index[T] {
	return &Index[T]{
		thresholds: thresholds,
		exact:      make(map[string]int),
	}
}

// Add registers a record under the cartesian product of its teams' variant
// sets, so later exact-stage lookups succeed for alias and noise-stripped
// spellings. Later adds overwrite earlier ones for colliding keys.
func (ix *Index[T]) Add(home, away string, value T) {
	homeNorm := identity.Normalize(home)
	awayNorm := identity.Normalize(away)
	if homeNorm == "" || awayNorm == "" {
		return
	}

	ix.entries = append(ix.entries, entry[T]{
		home:       homeNorm,
		away:       awayNorm,
		homeTokens: noiseTokenSet(homeNorm),
		awayTokens: noiseTokenSet(awayNorm),
		value:      value,
	})
	idx := len(ix.entries) - 1

	for _, hv := range identity.Variants(home) {
		for _, av := range identity.Variants(away) {
			ix.exact[hv+"|"+av] = idx
		}
	}
}

// Len reports how many records the index holds.
func (ix *Index[T]) Len() int { return len(ix.entries) }

// Resolve runs the staged chain and returns the matched record, or ok=false
// when nothing clears the thresholds.
func (ix *Index[T]) Resolve(home, away string) (T, bool) {
	var zero T
	homeNorm := identity.Normalize(home)
	awayNorm := identity.Normalize(away)
	if homeNorm == "" || awayNorm == "" {
		return zero, false
	}

	// Stage 1: exact primary key.
	if idx, ok := ix.exact[homeNorm+"|"+awayNorm]; ok {
		return ix.entries[idx].value, true
	}

	// Stage 2: every combination of the query's variant sets.
	for _, hv := range identity.Variants(home) {
		for _, av := range identity.Variants(away) {
			if idx, ok := ix.exact[hv+"|"+av]; ok {
				return ix.entries[idx].value, true
			}
		}
	}

	// Stage 3: substring containment on both sides.
	for _, e := range ix.entries {
		if mutualContains(e.home, homeNorm) && mutualContains(e.away, awayNorm) {
			return e.value, true
		}
	}

	// Stage 4: token-set similarity.
	return ix.resolveBySimilarity(homeNorm, awayNorm)
}

func (ix *Index[T]) resolveBySimilarity(homeNorm, awayNorm string) (T, bool) {
	var zero T
	th := ix.thresholds

	queryHome := noiseTokenSet(homeNorm)
	queryAway := noiseTokenSet(awayNorm)
	if len(queryHome) == 0 || len(queryAway) == 0 {
		return zero, false
	}

	bestScore := -1.0
	bestIdx := -1
	for i, e := range ix.entries {
		homeSim := jaccard(queryHome, e.homeTokens)
		awaySim := jaccard(queryAway, e.awayTokens)

		qualifies := (homeSim > th.BothMin && awaySim > th.BothMin) ||
			(homeSim > th.StrongSide && awaySim > th.WeakSide) ||
			(awaySim > th.StrongSide && homeSim > th.WeakSide)
		if !qualifies {
			continue
		}

		score := th.HomeWeight*homeSim + th.AwayWeight*awaySim
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < th.MinScore {
		return zero, false
	}

	return ix.entries[bestIdx].value, true
}

// mutualContains reports whether either string contains the other.
func mutualContains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// noiseTokenSet tokenizes the most aggressive comparable form of a name.
func noiseTokenSet(normalized string) map[string]struct{} {
	source := identity.StripNoise(normalized)
	if source == "" {
		source = normalized
	}

	fields := strings.Fields(source)
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}

	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
