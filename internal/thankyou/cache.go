package thankyou

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

type cacheEntry struct {
	note     string
	storedAt time.Time
}

// Cache is a bounded LRU of generated notes with a fixed time-to-live.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
	now     Clock
}

func NewCache(size int, ttl time.Duration, now Clock) (*Cache, error) {
	if size <= 0 {
		size = 1000
	}
	if now == nil {
		now = time.Now
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, ttl: ttl, now: now}, nil
}

func (c *Cache) Get(key string) (string, bool) {
	e, ok := c.entries.Get(key)
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl {
		c.entries.Remove(key)
		return "", false
	}
	return e.note, true
}

func (c *Cache) Set(key, note string) {
	c.entries.Add(key, cacheEntry{note: note, storedAt: c.now()})
}

func (c *Cache) Len() int {
	return c.entries.Len()
}
