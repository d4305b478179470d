package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oddsight/oddsight/internal/platform/resilience"
)

// ErrNegative is returned by Get/GetOrLoad while a cached negative entry
// for the key is still fresh. Callers treat it as "known absent".
var ErrNegative = errors.New("cache: negative entry")

type entry struct {
	value     any
	negative  bool
	expiresAt time.Time
}

// Store is an in-process TTL cache with singleflight-deduplicated loads.
// Failed lookups are remembered as negative entries with their own,
// usually shorter, TTL so a missing upstream record is not re-fetched on
// every request.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	negTTL  time.Duration
	flight  resilience.SingleFlight
}

func NewStore(ttl, negativeTTL time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		negTTL:  negativeTTL,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, error) {
	if key == "" {
		return nil, errNotCached
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, errNotCached
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, errNotCached
	}
	if e.negative {
		return nil, ErrNegative
	}

	return e.value, nil
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.put(key, entry{value: value, expiresAt: deadline(s.ttl)})
}

// SetNegative records that the key has no upstream value.
func (s *Store) SetNegative(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.put(key, entry{negative: true, expiresAt: deadline(s.negTTL)})
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key or runs loader to fill it,
// collapsing concurrent loads of the same key into one call. A loader
// error wrapping ErrNegative is cached as a negative entry; other errors
// are not cached at all.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errors.New("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, err := s.Get(ctx, key); err == nil {
		return value, nil
	} else if errors.Is(err, ErrNegative) {
		return nil, err
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, cacheErr := s.Get(ctx, key); cacheErr == nil {
			return cached, nil
		} else if errors.Is(cacheErr, ErrNegative) {
			return nil, cacheErr
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			if errors.Is(loadErr, ErrNegative) {
				s.SetNegative(ctx, key)
			}
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) put(key string, e entry) {
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

var errNotCached = errors.New("cache: miss")
