package usecase

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"

	"github.com/oddsight/oddsight/internal/domain/live"
	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

// ScoreEvent is one raw live-score report from the provider feed.
type ScoreEvent struct {
	Home   string `json:"home"`
	Away   string `json:"away"`
	Score  string `json:"score"`
	Status string `json:"status"`
}

// ScoreFetcher downloads the current score feed for one sport.
type ScoreFetcher interface {
	FetchScores(ctx context.Context, sportID string) ([]ScoreEvent, error)
}

// LiveScoreService polls the provider and maintains the score board the
// dashboard resolves against.
type LiveScoreService struct {
	fetcher ScoreFetcher
	board   *live.Board
	sports  []string
	logger  *logging.Logger
}

func NewLiveScoreService(fetcher ScoreFetcher, board *live.Board, sports []string, logger *logging.Logger) *LiveScoreService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LiveScoreService{
		fetcher: fetcher,
		board:   board,
		sports:  sports,
		logger:  logger,
	}
}

// Poll fetches every sport's feed and merges it into the board. A failing
// sport is logged and skipped; the board keeps its last known entries.
func (s *LiveScoreService) Poll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "LiveScoreService.Poll")
	defer span.End()

	var lastErr error
	for _, sportID := range s.sports {
		events, err := s.fetcher.FetchScores(ctx, sportID)
		if err != nil {
			lastErr = crerr.Wrapf(err, "fetch scores for %s", sportID)
			s.logger.WarnContext(ctx, "score poll failed", "sport_id", sportID, "error", err)
			continue
		}

		feed := live.NewFeed()
		for _, ev := range events {
			feed.Upsert(ev.Home, ev.Away, live.ScoreDetail{
				Score:  ev.Score,
				Status: ev.Status,
				Phase:  live.ParsePhase(ev.Status),
			})
		}
		s.board.Apply(feed)
		s.logger.DebugContext(ctx, "score feed applied", "sport_id", sportID, "events", len(events))
	}

	return lastErr
}

// Resolve answers one live-score lookup through the fuzzy chain.
func (s *LiveScoreService) Resolve(ctx context.Context, home, away string) (live.ScoreDetail, error) {
	_, span := startUsecaseSpan(ctx, "LiveScoreService.Resolve")
	defer span.End()

	detail, ok := s.board.Resolve(home, away)
	if !ok {
		return live.ScoreDetail{}, fmt.Errorf("%w: no live score for %q vs %q", ErrNotFound, home, away)
	}

	return detail, nil
}

// AttachScores stamps resolved live scores onto a collection snapshot.
func (s *LiveScoreService) AttachScores(c match.Collection) match.Collection {
	out := c
	out.Matches = make([]match.Match, len(c.Matches))
	copy(out.Matches, c.Matches)
	for i := range out.Matches {
		if detail, ok := s.board.Resolve(out.Matches[i].HomeTeam, out.Matches[i].AwayTeam); ok {
			out.Matches[i].LiveScore = detail.Score
		}
	}

	return out
}
