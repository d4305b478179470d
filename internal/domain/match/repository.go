package match

import "context"

// CollectionRepository stores the canonical collection. Implementations must
// replace a sport's slice of the collection atomically: readers never observe
// a partially written sport.
type CollectionRepository interface {
	Current(ctx context.Context) (Collection, error)
	ReplaceSport(ctx context.Context, sportID string, collection Collection) error
}
