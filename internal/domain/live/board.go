package live

import (
	"sync"

	"github.com/oddsight/oddsight/internal/fuzzy"
	"github.com/oddsight/oddsight/internal/identity"
)

type feedEntry struct {
	home, away string
	detail     ScoreDetail
}

// Feed is one poll's worth of live-score reports, keyed by normalized team
// pair. Every upsert also writes the mirrored reversed entry so a later
// lookup from the away side's perspective naturally returns the flipped
// score.
type Feed struct {
	entries map[string]feedEntry
}

func NewFeed() *Feed {
	return &Feed{entries: make(map[string]feedEntry)}
}

// Upsert records a report under both orientations. Within one feed the
// last write wins; cross-feed arbitration happens in MergeFeeds.
func (f *Feed) Upsert(home, away string, detail ScoreDetail) {
	if identity.Normalize(home) == "" || identity.Normalize(away) == "" {
		return
	}

	f.entries[identity.PairKey(home, away)] = feedEntry{home: home, away: away, detail: detail}
	f.entries[identity.PairKey(away, home)] = feedEntry{home: away, away: home, detail: detail.Reversed()}
}

// Len reports how many oriented entries the feed holds.
func (f *Feed) Len() int { return len(f.entries) }

// MergeFeeds combines two feeds key by key. When both carry a report for
// the same key the live-phase one wins; otherwise the incoming value wins.
// Replaying the same incoming feed is a no-op, which keeps polling
// idempotent.
func MergeFeeds(base, incoming *Feed) *Feed {
	out := NewFeed()
	if base != nil {
		for key, e := range base.entries {
			out.entries[key] = e
		}
	}
	if incoming != nil {
		for key, e := range incoming.entries {
			if existing, ok := out.entries[key]; ok {
				e.detail = Prefer(existing.detail, e.detail)
			}
			out.entries[key] = e
		}
	}

	return out
}

// Board is the resolver's current view of all live scores. It applies
// incoming feeds with MergeFeeds semantics and answers lookups through the
// shared fuzzy resolution chain, so the same identity logic serves both
// merge and live-score paths.
type Board struct {
	mu         sync.RWMutex
	thresholds fuzzy.Thresholds
	feed       *Feed
	index      *fuzzy.Index[ScoreDetail]
}

func NewBoard(thresholds fuzzy.Thresholds) *Board {
	return &Board{
		thresholds: thresholds,
		feed:       NewFeed(),
		index:      fuzzy.NewIndex[ScoreDetail](thresholds),
	}
}

// Apply merges an incoming feed into the board and rebuilds the lookup
// index. Stale entries are superseded, never deleted.
func (b *Board) Apply(incoming *Feed) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.feed = MergeFeeds(b.feed, incoming)

	index := fuzzy.NewIndex[ScoreDetail](b.thresholds)
	for _, e := range b.feed.entries {
		index.Add(e.home, e.away, e.detail)
	}
	b.index = index
}

// Resolve answers a live-score query from either side's perspective.
func (b *Board) Resolve(home, away string) (ScoreDetail, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.index.Resolve(home, away)
}

// Len reports how many oriented entries the board currently tracks.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.feed.Len()
}
