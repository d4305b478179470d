package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/platform/cache"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

type fakeLogoResolver struct {
	calls atomic.Int32
	urls  map[string]string
}

func (f *fakeLogoResolver) Resolve(_ context.Context, team string) (string, error) {
	f.calls.Add(1)
	if url, ok := f.urls[team]; ok {
		return url, nil
	}
	return "", cache.ErrNegative
}

func TestEnrich_AttachesBadges(t *testing.T) {
	resolver := &fakeLogoResolver{urls: map[string]string{
		"Ajax": "https://cdn.example.com/ajax.png",
		"PSV":  "https://cdn.example.com/psv.png",
	}}
	svc := NewEnrichService(resolver, 2, logging.NewNop())

	c := match.Collection{Matches: []match.Match{
		{ID: "m1", HomeTeam: "Ajax", AwayTeam: "PSV"},
		{ID: "m2", HomeTeam: "Ajax", AwayTeam: "Heracles"},
	}}

	got, err := svc.Enrich(context.Background(), c)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got.Matches[0].HomeLogo != "https://cdn.example.com/ajax.png" {
		t.Fatalf("unexpected home logo: %q", got.Matches[0].HomeLogo)
	}
	if got.Matches[0].AwayLogo != "https://cdn.example.com/psv.png" {
		t.Fatalf("unexpected away logo: %q", got.Matches[0].AwayLogo)
	}
	if got.Matches[1].AwayLogo != "" {
		t.Fatalf("unknown team should stay without a badge")
	}
	// Ajax appears twice but resolves once.
	if calls := resolver.calls.Load(); calls != 3 {
		t.Fatalf("expected 3 unique lookups, got %d", calls)
	}
	// Input snapshot stays untouched.
	if c.Matches[0].HomeLogo != "" {
		t.Fatalf("input snapshot mutated")
	}
}

func TestEnrich_EmptyCollection(t *testing.T) {
	svc := NewEnrichService(&fakeLogoResolver{}, 2, logging.NewNop())
	got, err := svc.Enrich(context.Background(), match.Collection{})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(got.Matches) != 0 {
		t.Fatalf("unexpected matches: %d", len(got.Matches))
	}
}

type failingLogoResolver struct{}

func (failingLogoResolver) Resolve(context.Context, string) (string, error) {
	return "", errors.New("catalog down")
}

func TestEnrich_LookupFailuresLeaveFieldsEmpty(t *testing.T) {
	svc := NewEnrichService(failingLogoResolver{}, 2, logging.NewNop())
	c := match.Collection{Matches: []match.Match{{ID: "m1", HomeTeam: "Ajax", AwayTeam: "PSV"}}}

	got, err := svc.Enrich(context.Background(), c)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got.Matches[0].HomeLogo != "" || got.Matches[0].AwayLogo != "" {
		t.Fatalf("failed lookups must not attach badges")
	}
}
