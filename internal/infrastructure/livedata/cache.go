package livedata

import (
	"sync"
	"time"
)

// cachedValue is a single-entry TTL cache shared by the providers. Live
// conditions change slowly, so callers mostly read the cached string
// instead of burning API quota.
type cachedValue struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	value     string
	fetchedAt time.Time
}

func newCachedValue(ttl time.Duration) *cachedValue {
	return &cachedValue{ttl: ttl, now: time.Now}
}

func (c *cachedValue) get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) > c.ttl {
		return "", false
	}
	return c.value, true
}

func (c *cachedValue) set(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.fetchedAt = c.now()
}
