package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oddsight/oddsight/internal/domain/match"
)

// CollectionRepository keeps the latest merged collection per sport in
// memory. Readers always see a complete snapshot: ReplaceSport swaps the
// whole per-sport entry, never mutates one in place.
type CollectionRepository struct {
	mu       sync.RWMutex
	bySport  map[string]match.Collection
	sportIDs []string
}

func NewCollectionRepository() *CollectionRepository {
	return &CollectionRepository{bySport: make(map[string]match.Collection)}
}

func (r *CollectionRepository) Current(_ context.Context) (match.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out match.Collection
	for _, sportID := range r.sportIDs {
		c := r.bySport[sportID]
		out.Sports = append(out.Sports, c.Sports...)
		out.Leagues = append(out.Leagues, c.Leagues...)
		out.Matches = append(out.Matches, c.Matches...)
	}

	return out, nil
}

func (r *CollectionRepository) ReplaceSport(_ context.Context, sportID string, c match.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySport[sportID]; !ok {
		r.sportIDs = append(r.sportIDs, sportID)
		sort.Strings(r.sportIDs)
	}
	r.bySport[sportID] = c

	return nil
}
