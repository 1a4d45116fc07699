package imageurl

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	found   bool
	expires time.Time
}

// CachingChecker memoizes probe outcomes per URL for a fixed TTL.
// It is safe for concurrent use; concurrent checks of the same uncached
// URL share one probe.
type CachingChecker struct {
	inner Checker
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// WithCache wraps a Checker with an in-process outcome cache.
// A non-positive ttl caches for the life of the process.
func WithCache(c Checker, ttl time.Duration) *CachingChecker {
	return &CachingChecker{
		inner:   c,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachingChecker) Exists(ctx context.Context, url string) bool {
	if found, ok := c.lookup(url); ok {
		return found
	}

	v, _, _ := c.group.Do(url, func() (any, error) {
		if found, ok := c.lookup(url); ok {
			return found, nil
		}
		found := c.inner.Exists(ctx, url)

		// A cancelled probe says nothing about the URL.
		if ctx.Err() != nil {
			return found, nil
		}

		c.mu.Lock()
		e := cacheEntry{found: found}
		if c.ttl > 0 {
			e.expires = c.now().Add(c.ttl)
		}
		c.entries[url] = e
		c.mu.Unlock()
		return found, nil
	})
	return v.(bool)
}

func (c *CachingChecker) lookup(url string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok {
		return false, false
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, url)
		return false, false
	}
	return e.found, true
}

// Len returns the number of cached outcomes, expired ones included.
func (c *CachingChecker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every cached outcome.
func (c *CachingChecker) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
