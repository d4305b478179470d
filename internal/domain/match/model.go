// Package match holds the canonical fixture model produced by ingestion and
// consumed by the presentation/storage collaborators.
package match

import (
	"fmt"
	"strings"

	"github.com/oddsight/oddsight/internal/identity"
)

// Sport groups leagues under one dashboard tab.
type Sport struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	MatchCount int    `json:"match_count"`
}

// League is derived from a sport plus the slugified league name. A league
// with zero matches is pruned before it is surfaced.
type League struct {
	ID         string `json:"id"`
	SportID    string `json:"sport_id"`
	Name       string `json:"name"`
	Country    string `json:"country,omitempty"`
	Flag       string `json:"flag,omitempty"`
	MatchCount int    `json:"match_count"`
}

// LeagueID derives the stable league identifier from sport and league name.
func LeagueID(sportID, leagueName string) string {
	slug := identity.Slug(leagueName)
	if slug == "" {
		slug = "unknown"
	}
	return sportID + ":" + slug
}

// Triplet is a generic home/draw/away value set (odds, probabilities, money).
type Triplet struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// IsZero reports whether no side carries a value.
func (t Triplet) IsZero() bool {
	return t.Home == 0 && t.Draw == 0 && t.Away == 0
}

// ScorePair is an expected or handicap score split by side.
type ScorePair struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

func (p ScorePair) IsZero() bool {
	return p.Home == 0 && p.Away == 0
}

// OverUnder is a totals line with over/under percentages.
type OverUnder struct {
	Line      float64 `json:"line"`
	OverPct   float64 `json:"over_pct"`
	UnderPct  float64 `json:"under_pct"`
}

func (o OverUnder) IsZero() bool {
	return o.Line == 0 && o.OverPct == 0 && o.UnderPct == 0
}

// MonitorDetail is a free-form annotation joined from auxiliary sheets.
// Entries are unique per match by (label, value), case-insensitively.
type MonitorDetail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Key returns the case-insensitive dedupe key for a detail.
func (d MonitorDetail) Key() string {
	return strings.ToLower(strings.TrimSpace(d.Label)) + "|" + strings.ToLower(strings.TrimSpace(d.Value))
}

// TopScore is one ranked entry of the correct-score distribution.
type TopScore struct {
	Home        int     `json:"home"`
	Away        int     `json:"away"`
	Probability float64 `json:"probability"`
}

// MarketBlock carries betting-market money splits and odds movement.
type MarketBlock struct {
	PublicML   *Triplet `json:"public_ml,omitempty"`
	PublicAll  *Triplet `json:"public_all,omitempty"`
	CashAll    *Triplet `json:"cash_all,omitempty"`
	CashAmount *Triplet `json:"cash_amount,omitempty"`
	PublicPct  float64  `json:"public_pct,omitempty"`
	CashPct    float64  `json:"cash_pct,omitempty"`
	Opening    *Triplet `json:"opening,omitempty"`
	Current    *Triplet `json:"current,omitempty"`
}

// Match is the canonical, deduplicated fixture record.
type Match struct {
	ID              string          `json:"id"`
	SportID         string          `json:"sport_id"`
	LeagueID        string          `json:"league_id"`
	LeagueName      string          `json:"league_name"`
	HomeTeam        string          `json:"home_team"`
	AwayTeam        string          `json:"away_team"`
	HomeLogo        string          `json:"home_logo,omitempty"`
	AwayLogo        string          `json:"away_logo,omitempty"`
	KickoffAt       string          `json:"kickoff_at"`
	LiveScore       string          `json:"live_score,omitempty"`
	Confidence      float64         `json:"confidence"`
	Trust           float64         `json:"trust"`
	Odds            Triplet         `json:"odds"`
	Prediction      Triplet         `json:"prediction"`
	ExpectedScore   ScorePair       `json:"expected_score"`
	Handicap        ScorePair       `json:"handicap"`
	OverUnder       OverUnder       `json:"over_under"`
	BTTSPct         float64         `json:"btts_pct"`
	Signals         []string        `json:"signals,omitempty"`
	PredictionBasis []string        `json:"prediction_basis,omitempty"`
	MonitorDetails  []MonitorDetail `json:"monitor_details,omitempty"`
	TopScores       []TopScore      `json:"top_scores,omitempty"`
	Market          *MarketBlock    `json:"market,omitempty"`
}

// IdentityKey is the forward (league, home, away) key recognizing the same
// fixture across sources. ReverseKey covers swapped orientations.
func (m Match) IdentityKey() string {
	return m.LeagueID + "|" + identity.Normalize(m.HomeTeam) + "|" + identity.Normalize(m.AwayTeam)
}

func (m Match) ReverseKey() string {
	return m.LeagueID + "|" + identity.Normalize(m.AwayTeam) + "|" + identity.Normalize(m.HomeTeam)
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("match league id is required")
	}
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return fmt.Errorf("match team pair is required")
	}
	return nil
}

// ClampPercent bounds a percentage-point value to [0,100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// DedupeDetails removes duplicate monitor details, keeping first appearance
// order.
func DedupeDetails(items []MonitorDetail) []MonitorDetail {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]MonitorDetail, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Label) == "" && strings.TrimSpace(item.Value) == "" {
			continue
		}
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out
}

// UnionStrings merges two string lists with set semantics, preserving the
// order of first appearance.
func UnionStrings(base, extra []string) []string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, item := range list {
			trimmed := strings.TrimSpace(item)
			if trimmed == "" {
				continue
			}
			key := strings.ToLower(trimmed)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, trimmed)
		}
	}

	return out
}
