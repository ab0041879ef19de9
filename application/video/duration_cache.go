package video

import (
	"context"
	"sync"

	"video-cutter/domain/video"
)

type cachedDuration struct {
	seconds float64
	ok      bool
}

// DurationCache memoizes probe results per path, unknown durations included
type DurationCache struct {
	prober  video.DurationProber
	mu      sync.Mutex
	entries map[string]cachedDuration
}

// NewDurationCache wraps prober with a per-path cache
func NewDurationCache(prober video.DurationProber) *DurationCache {
	return &DurationCache{
		prober:  prober,
		entries: make(map[string]cachedDuration),
	}
}

// Duration returns the cached duration for path, probing on first use
func (c *DurationCache) Duration(ctx context.Context, path string) (float64, bool) {
	c.mu.Lock()
	if e, hit := c.entries[path]; hit {
		c.mu.Unlock()
		return e.seconds, e.ok
	}
	c.mu.Unlock()

	seconds, ok := c.prober.Duration(ctx, path)

	c.mu.Lock()
	c.entries[path] = cachedDuration{seconds: seconds, ok: ok}
	c.mu.Unlock()

	return seconds, ok
}

// Invalidate drops the cached entry for path
func (c *DurationCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

var _ video.DurationProber = (*DurationCache)(nil)
