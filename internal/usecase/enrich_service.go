package usecase

import (
	"context"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/identity"
	"github.com/oddsight/oddsight/internal/platform/cache"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

// LogoResolver looks up the badge URL for a team name. A cache.ErrNegative
// result means the catalog has no badge for the team.
type LogoResolver interface {
	Resolve(ctx context.Context, team string) (string, error)
}

// EnrichService decorates merged snapshots with team badges. Resolution
// runs on a bounded worker pool since a snapshot can carry hundreds of
// distinct teams.
type EnrichService struct {
	resolver LogoResolver
	workers  int
	logger   *logging.Logger
}

func NewEnrichService(resolver LogoResolver, workers int, logger *logging.Logger) *EnrichService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 8
	}

	return &EnrichService{
		resolver: resolver,
		workers:  workers,
		logger:   logger,
	}
}

// Enrich returns a copy of the collection with badge URLs filled in for
// every team the catalog knows. Lookup failures leave the field empty.
func (s *EnrichService) Enrich(ctx context.Context, c match.Collection) (match.Collection, error) {
	ctx, span := startUsecaseSpan(ctx, "EnrichService.Enrich")
	defer span.End()

	teams := make(map[string]string)
	for _, m := range c.Matches {
		for _, team := range []string{m.HomeTeam, m.AwayTeam} {
			if key := identity.Normalize(team); key != "" {
				teams[key] = team
			}
		}
	}
	if len(teams) == 0 {
		return c, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return c, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var mu sync.Mutex
	logos := make(map[string]string, len(teams))

	var wg sync.WaitGroup
	for key, team := range teams {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			logoURL, resolveErr := s.resolver.Resolve(ctx, team)
			if resolveErr != nil {
				if !crerr.Is(resolveErr, cache.ErrNegative) {
					s.logger.DebugContext(ctx, "badge lookup failed", "team", team, "error", resolveErr)
				}
				return
			}

			mu.Lock()
			logos[key] = logoURL
			mu.Unlock()
		}); err != nil {
			wg.Done()
			return c, crerr.Wrap(err, "submit badge lookup")
		}
	}
	wg.Wait()

	out := c
	out.Matches = make([]match.Match, len(c.Matches))
	copy(out.Matches, c.Matches)
	for i := range out.Matches {
		if url, ok := logos[identity.Normalize(out.Matches[i].HomeTeam)]; ok {
			out.Matches[i].HomeLogo = url
		}
		if url, ok := logos[identity.Normalize(out.Matches[i].AwayTeam)]; ok {
			out.Matches[i].AwayLogo = url
		}
	}

	return out, nil
}
