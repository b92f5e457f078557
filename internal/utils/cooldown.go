package utils

import (
	"sync"
	"time"
)

// CooldownCache tracks the last time a key performed an action, evicting
// stale entries so the map stays bounded regardless of how many users pass
// through.
type CooldownCache struct {
	mu      sync.Mutex
	last    map[string]time.Time
	maxSize int
}

func NewCooldownCache(maxSize int) *CooldownCache {
	if maxSize <= 0 {
		maxSize = 4096
	}
	return &CooldownCache{last: make(map[string]time.Time), maxSize: maxSize}
}

// Try records a hit for key if at least cooldown has elapsed since the last
// one. It returns true when the hit was allowed, false with the remaining
// wait otherwise.
func (c *CooldownCache) Try(key string, now time.Time, cooldown time.Duration) (bool, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[key]; ok {
		elapsed := now.Sub(last)
		if elapsed < cooldown {
			return false, cooldown - elapsed
		}
	}

	if len(c.last) >= c.maxSize {
		c.evict(now, cooldown)
	}
	c.last[key] = now
	return true, 0
}

// evict removes expired entries; if nothing has expired the oldest entries
// go first. Caller holds the lock.
func (c *CooldownCache) evict(now time.Time, cooldown time.Duration) {
	for key, last := range c.last {
		if now.Sub(last) >= cooldown {
			delete(c.last, key)
		}
	}
	for key := range c.last {
		if len(c.last) < c.maxSize {
			break
		}
		delete(c.last, key)
	}
}

func (c *CooldownCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.last)
}
