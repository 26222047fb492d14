package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// MultiLevelCache layers the in-process memory cache over Redis. L1 misses
// fall through to L2 and repopulate L1 with a short TTL. L2 failures are
// counted but never surfaced to callers; the cache is an optimization only.
//
// L1 holds JSON snapshots, same as L2. Entries never alias caller state:
// a value mutated after Set (or after a Get that filled the cache) cannot
// leak into later reads.
type MultiLevelCache struct {
	l1 *MemoryCache
	l2 *RedisCache

	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

const l1RefillTTL = 5 * time.Minute

func NewMultiLevelCache(redisCache *RedisCache) *MultiLevelCache {
	return &MultiLevelCache{
		l1: NewMemoryCache(),
		l2: redisCache,
	}
}

func (c *MultiLevelCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	c.l1.Set(key, data, ttl)

	if c.l2 != nil {
		if err := c.l2.Set(key, value, ttl); err != nil {
			c.errors.Add(1)
		}
	}
	return nil
}

func (c *MultiLevelCache) Get(key string, dest interface{}) error {
	if value, found := c.l1.Get(key); found {
		if data, ok := value.([]byte); ok {
			c.hits.Add(1)
			return json.Unmarshal(data, dest)
		}
	}

	if c.l2 != nil {
		err := c.l2.Get(key, dest)
		if err == nil {
			c.hits.Add(1)
			if data, marshalErr := json.Marshal(dest); marshalErr == nil {
				c.l1.Set(key, data, l1RefillTTL)
			}
			return nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.errors.Add(1)
		}
	}

	c.misses.Add(1)
	return ErrCacheMiss
}

func (c *MultiLevelCache) Delete(key string) error {
	c.l1.Delete(key)

	if c.l2 != nil {
		if err := c.l2.Delete(key); err != nil {
			c.errors.Add(1)
			return err
		}
	}
	return nil
}

func (c *MultiLevelCache) DeletePattern(pattern string) error {
	c.l1.DeletePattern(pattern)

	if c.l2 != nil {
		return c.l2.DeletePattern(pattern)
	}
	return nil
}

func (c *MultiLevelCache) Exists(key string) (bool, error) {
	if _, found := c.l1.Get(key); found {
		return true, nil
	}
	if c.l2 != nil {
		return c.l2.Exists(key)
	}
	return false, nil
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"l1":     c.l1.Stats(),
		"hits":   c.hits.Load(),
		"misses": c.misses.Load(),
		"errors": c.errors.Load(),
	}
	if c.l2 != nil {
		stats["l2"] = c.l2.Stats()
	}
	return stats
}

func (c *MultiLevelCache) Health() error {
	if c.l2 != nil {
		return c.l2.Health()
	}
	return nil
}

func (c *MultiLevelCache) Close() error {
	if c.l2 != nil {
		return c.l2.Close()
	}
	return nil
}
