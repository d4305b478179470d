// Package merge deduplicates and field-merges canonical match batches
// produced by independent extractor runs. Merging is idempotent, and per
// identity key it is associative and commutative, so batches can arrive in
// any order.
package merge

import (
	"github.com/oddsight/oddsight/internal/domain/match"
)

// Batches merges incoming into existing and returns the combined batch with
// recomputed league/sport counts and zero-match entries pruned.
func Batches(existing, incoming match.Collection) match.Collection {
	index := make(map[string]int, len(existing.Matches))
	out := make([]match.Match, len(existing.Matches))
	copy(out, existing.Matches)
	for i, m := range out {
		index[m.IdentityKey()] = i
	}

	for _, in := range incoming.Matches {
		idx, ok := index[in.IdentityKey()]
		if !ok {
			// Same fixture listed with sides swapped still merges.
			idx, ok = index[in.ReverseKey()]
		}
		if !ok {
			index[in.IdentityKey()] = len(out)
			out = append(out, in)
			continue
		}

		out[idx] = Fields(out[idx], in)
	}

	combined := match.Collection{
		Sports:  unionSports(existing.Sports, incoming.Sports),
		Leagues: unionLeagues(existing.Leagues, incoming.Leagues),
		Matches: out,
	}

	return combined.Recount()
}

// Fields merges one incoming record into an existing one. Scalar blocks
// take the incoming value only when it is non-empty/non-zero; list fields
// union with set semantics; market sub-objects merge key by key.
func Fields(existing, incoming match.Match) match.Match {
	out := existing

	if incoming.KickoffAt != "" {
		out.KickoffAt = incoming.KickoffAt
	}
	if incoming.HomeLogo != "" {
		out.HomeLogo = incoming.HomeLogo
	}
	if incoming.AwayLogo != "" {
		out.AwayLogo = incoming.AwayLogo
	}
	if incoming.LiveScore != "" {
		out.LiveScore = incoming.LiveScore
	}
	if incoming.Confidence != 0 {
		out.Confidence = match.ClampPercent(incoming.Confidence)
	}
	if incoming.Trust != 0 {
		out.Trust = match.ClampPercent(incoming.Trust)
	}
	if !incoming.Odds.IsZero() {
		out.Odds = incoming.Odds
	}
	if !incoming.Prediction.IsZero() {
		out.Prediction = incoming.Prediction
	}
	if !incoming.ExpectedScore.IsZero() {
		out.ExpectedScore = incoming.ExpectedScore
	}
	if !incoming.Handicap.IsZero() {
		out.Handicap = incoming.Handicap
	}
	if !incoming.OverUnder.IsZero() {
		out.OverUnder = incoming.OverUnder
	}
	if incoming.BTTSPct != 0 {
		out.BTTSPct = match.ClampPercent(incoming.BTTSPct)
	}

	out.Signals = match.UnionStrings(existing.Signals, incoming.Signals)
	out.PredictionBasis = match.UnionStrings(existing.PredictionBasis, incoming.PredictionBasis)
	out.MonitorDetails = match.DedupeDetails(append(append([]match.MonitorDetail{}, existing.MonitorDetails...), incoming.MonitorDetails...))

	if len(incoming.TopScores) > 0 {
		out.TopScores = incoming.TopScores
	}

	out.Market = mergeMarket(existing.Market, incoming.Market)

	return out
}

// mergeMarket merges sub-objects key by key: an incoming non-nil sub-object
// replaces the existing one, otherwise the existing one is kept.
func mergeMarket(existing, incoming *match.MarketBlock) *match.MarketBlock {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		merged := *incoming
		return &merged
	}

	out := *existing
	if incoming.PublicML != nil {
		out.PublicML = incoming.PublicML
	}
	if incoming.PublicAll != nil {
		out.PublicAll = incoming.PublicAll
	}
	if incoming.CashAll != nil {
		out.CashAll = incoming.CashAll
	}
	if incoming.CashAmount != nil {
		out.CashAmount = incoming.CashAmount
	}
	if incoming.PublicPct != 0 {
		out.PublicPct = incoming.PublicPct
	}
	if incoming.CashPct != 0 {
		out.CashPct = incoming.CashPct
	}
	if incoming.Opening != nil {
		out.Opening = incoming.Opening
	}
	if incoming.Current != nil {
		out.Current = incoming.Current
	}

	return &out
}

func unionSports(base, extra []match.Sport) []match.Sport {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]match.Sport, 0, len(base)+len(extra))
	for _, list := range [][]match.Sport{base, extra} {
		for _, s := range list {
			if _, ok := seen[s.ID]; ok {
				continue
			}
			seen[s.ID] = struct{}{}
			out = append(out, s)
		}
	}

	return out
}

func unionLeagues(base, extra []match.League) []match.League {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]match.League, 0, len(base)+len(extra))
	for _, list := range [][]match.League{base, extra} {
		for _, l := range list {
			if _, ok := seen[l.ID]; ok {
				continue
			}
			seen[l.ID] = struct{}{}
			out = append(out, l)
		}
	}

	return out
}
