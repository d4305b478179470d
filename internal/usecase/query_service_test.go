package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/oddsight/oddsight/internal/domain/live"
	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/fuzzy"
	"github.com/oddsight/oddsight/internal/infrastructure/repository/memory"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

func seededQueryService(t *testing.T, scores *LiveScoreService) *QueryService {
	t.Helper()

	repo := memory.NewCollectionRepository()
	c := match.Collection{
		Sports:  []match.Sport{{ID: "soccer", Name: "Soccer"}},
		Leagues: []match.League{{ID: "soccer:ligue-1", SportID: "soccer", Name: "Ligue 1"}},
		Matches: []match.Match{
			{ID: "m1", SportID: "soccer", LeagueID: "soccer:ligue-1", HomeTeam: "Paris Saint-Germain", AwayTeam: "Olympique Marseille"},
			{ID: "m2", SportID: "soccer", LeagueID: "soccer:ligue-1", HomeTeam: "Lyon", AwayTeam: "Lille"},
		},
	}
	if err := repo.ReplaceSport(context.Background(), "soccer", c.Recount()); err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	return NewQueryService(repo, fuzzy.DefaultThresholds(), scores, logging.NewNop())
}

func TestResolveMatch_ViaAlias(t *testing.T) {
	svc := seededQueryService(t, nil)

	got, err := svc.ResolveMatch(context.Background(), "PSG", "OM")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != "m1" {
		t.Fatalf("unexpected match: %s", got.ID)
	}
}

func TestResolveMatch_NotFound(t *testing.T) {
	svc := seededQueryService(t, nil)

	if _, err := svc.ResolveMatch(context.Background(), "Arsenal", "Chelsea"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ResolveMatch(context.Background(), "", "Chelsea"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSnapshot_AttachesLiveScores(t *testing.T) {
	fetcher := &fakeScoreFetcher{events: map[string][]ScoreEvent{
		"soccer": {{Home: "PSG", Away: "Marseille", Score: "2-1", Status: "60'"}},
	}}
	scores := NewLiveScoreService(fetcher, live.NewBoard(fuzzy.DefaultThresholds()), []string{"soccer"}, logging.NewNop())
	if err := scores.Poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}

	svc := seededQueryService(t, scores)
	got, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	var psg match.Match
	for _, m := range got.Matches {
		if m.ID == "m1" {
			psg = m
		}
	}
	if psg.LiveScore != "2-1" {
		t.Fatalf("expected live score on snapshot, got %q", psg.LiveScore)
	}
}

func TestResolveLiveScore(t *testing.T) {
	fetcher := &fakeScoreFetcher{events: map[string][]ScoreEvent{
		"soccer": {{Home: "PSG", Away: "Marseille", Score: "2-1", Status: "60'"}},
	}}
	scores := NewLiveScoreService(fetcher, live.NewBoard(fuzzy.DefaultThresholds()), []string{"soccer"}, logging.NewNop())
	if err := scores.Poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}

	svc := seededQueryService(t, scores)
	detail, err := svc.ResolveLiveScore(context.Background(), "Paris Saint-Germain", "Olympique Marseille")
	if err != nil {
		t.Fatalf("resolve live score: %v", err)
	}
	if detail.Score != "2-1" {
		t.Fatalf("unexpected score: %q", detail.Score)
	}

	if _, err := svc.ResolveLiveScore(context.Background(), "", "OM"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	noScores := seededQueryService(t, nil)
	if _, err := noScores.ResolveLiveScore(context.Background(), "PSG", "OM"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without live feed, got %v", err)
	}
}
