package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/oddsight/oddsight/internal/domain/live"
	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/fuzzy"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

// QueryService answers dashboard reads from the current merged snapshot.
type QueryService struct {
	repo       match.CollectionRepository
	thresholds fuzzy.Thresholds
	scores     *LiveScoreService
	logger     *logging.Logger
}

func NewQueryService(repo match.CollectionRepository, thresholds fuzzy.Thresholds, scores *LiveScoreService, logger *logging.Logger) *QueryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &QueryService{
		repo:       repo,
		thresholds: thresholds,
		scores:     scores,
		logger:     logger,
	}
}

// Snapshot returns the current collection with live scores attached.
func (s *QueryService) Snapshot(ctx context.Context) (match.Collection, error) {
	ctx, span := startUsecaseSpan(ctx, "QueryService.Snapshot")
	defer span.End()

	c, err := s.repo.Current(ctx)
	if err != nil {
		return match.Collection{}, fmt.Errorf("read snapshot: %w", err)
	}
	if s.scores != nil {
		c = s.scores.AttachScores(c)
	}

	return c, nil
}

// ResolveMatch finds the snapshot match for a team pair, tolerating
// aliases, noise words, and swapped orientations.
func (s *QueryService) ResolveMatch(ctx context.Context, home, away string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "QueryService.ResolveMatch")
	defer span.End()

	if strings.TrimSpace(home) == "" || strings.TrimSpace(away) == "" {
		return match.Match{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}

	c, err := s.repo.Current(ctx)
	if err != nil {
		return match.Match{}, fmt.Errorf("read snapshot: %w", err)
	}

	index := fuzzy.NewIndex[match.Match](s.thresholds)
	for _, m := range c.Matches {
		index.Add(m.HomeTeam, m.AwayTeam, m)
	}

	found, ok := index.Resolve(home, away)
	if !ok {
		return match.Match{}, fmt.Errorf("%w: no match for %q vs %q", ErrNotFound, home, away)
	}

	return found, nil
}

// ResolveLiveScore answers a live-score lookup for a team pair.
func (s *QueryService) ResolveLiveScore(ctx context.Context, home, away string) (live.ScoreDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "QueryService.ResolveLiveScore")
	defer span.End()

	if strings.TrimSpace(home) == "" || strings.TrimSpace(away) == "" {
		return live.ScoreDetail{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if s.scores == nil {
		return live.ScoreDetail{}, fmt.Errorf("%w: live scores not configured", ErrNotFound)
	}

	return s.scores.Resolve(ctx, home, away)
}
