// Package live models live-score updates arriving from feed polls.
package live

import "strings"

// Phase tags how authoritative a score report is. A live report beats a
// final or unknown one when two feeds disagree.
type Phase string

const (
	PhaseUnknown Phase = "unknown"
	PhaseLive    Phase = "live"
	PhaseFinal   Phase = "final"
)

// ParsePhase maps free-text feed status to a phase. Unrecognized statuses
// stay unknown rather than failing.
func ParsePhase(value string) Phase {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "live", "in_play", "inplay", "1h", "2h", "ht", "et":
		return PhaseLive
	case "final", "finished", "ft", "aet", "pen", "ended":
		return PhaseFinal
	default:
		return PhaseUnknown
	}
}

// ScoreDetail is one live-score report for a fixture.
type ScoreDetail struct {
	Score  string `json:"score"`
	Status string `json:"status,omitempty"`
	Phase  Phase  `json:"phase"`
}

// Reversed returns the same report seen from the opposite side: score digits
// swapped, phase preserved, status re-derived from the phase.
func (d ScoreDetail) Reversed() ScoreDetail {
	out := ScoreDetail{
		Score: FlipScore(d.Score),
		Phase: d.Phase,
	}
	switch d.Phase {
	case PhaseLive:
		out.Status = "LIVE"
	case PhaseFinal:
		out.Status = "FT"
	default:
		out.Status = d.Status
	}

	return out
}

// FlipScore swaps the sides of an "H-A" score string. Strings that do not
// split into exactly two parts come back unchanged.
func FlipScore(score string) string {
	parts := strings.SplitN(strings.TrimSpace(score), "-", 2)
	if len(parts) != 2 {
		return score
	}
	return strings.TrimSpace(parts[1]) + "-" + strings.TrimSpace(parts[0])
}

// Prefer picks the more authoritative of two reports for the same fixture:
// a live report always wins, otherwise the incoming report wins.
func Prefer(existing, incoming ScoreDetail) ScoreDetail {
	if existing.Phase == PhaseLive && incoming.Phase != PhaseLive {
		return existing
	}
	return incoming
}
