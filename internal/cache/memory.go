package cache

import (
	"strings"
	"sync"
	"time"
)

// MemoryCache is the in-process L1. Values are stored as-is; expiry is
// checked lazily on read and swept by a background ticker.
type MemoryCache struct {
	store sync.Map
}

type memoryItem struct {
	value      interface{}
	expiration time.Time
}

func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{}
	go c.sweep()
	return c
}

func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.store.Store(key, &memoryItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	})
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	entry, exists := c.store.Load(key)
	if !exists {
		return nil, false
	}

	item := entry.(*memoryItem)
	if time.Now().After(item.expiration) {
		c.store.Delete(key)
		return nil, false
	}
	return item.value, true
}

func (c *MemoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *MemoryCache) DeletePattern(pattern string) {
	c.store.Range(func(key, _ interface{}) bool {
		if matchPattern(key.(string), pattern) {
			c.store.Delete(key)
		}
		return true
	})
}

func (c *MemoryCache) Stats() map[string]interface{} {
	count := 0
	c.store.Range(func(_, _ interface{}) bool {
		count++
		return true
	})

	return map[string]interface{}{
		"items": count,
		"type":  "memory",
	}
}

func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.store.Range(func(key, value interface{}) bool {
			if now.After(value.(*memoryItem).expiration) {
				c.store.Delete(key)
			}
			return true
		})
	}
}

// matchPattern supports the "prefix*" and "*" forms used by cache keys.
func matchPattern(text, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(text, strings.TrimSuffix(pattern, "*"))
	}
	return text == pattern
}
