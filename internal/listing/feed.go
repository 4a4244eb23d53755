package listing

import (
	"context"
	"sync"

	"messagewall/internal/server/records"
)

// FetchFunc produces the full, already-deduplicated feed.
type FetchFunc func(ctx context.Context) ([]*records.Record, error)

// Feed caches one fetch result and stamps every fetch with a generation
// counter, so a slow response started before an Invalidate (or before a
// newer fetch) is discarded instead of overwriting fresher state.
type Feed struct {
	mu    sync.Mutex
	fetch FetchFunc
	gen   uint64
	items []*records.Record
	valid bool
}

func NewFeed(fetch FetchFunc) *Feed {
	return &Feed{fetch: fetch}
}

// Get returns the cached feed, fetching it first if the cache is invalid.
func (f *Feed) Get(ctx context.Context) ([]*records.Record, error) {
	f.mu.Lock()
	if f.valid {
		items := f.items
		f.mu.Unlock()
		return items, nil
	}
	f.mu.Unlock()

	return f.Refresh(ctx)
}

// Refresh fetches the feed. If the cache was invalidated (or refreshed
// again) while the fetch was in flight, the stale result is dropped and the
// current cache, whatever it is, wins.
func (f *Feed) Refresh(ctx context.Context) ([]*records.Record, error) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	items, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		// A newer fetch or an invalidation superseded this response.
		return f.items, nil
	}
	f.items = items
	f.valid = true
	return items, nil
}

// Invalidate drops the cache after a mutation. The next Get re-fetches, and
// any in-flight fetch from before the invalidation is discarded.
func (f *Feed) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.valid = false
}
