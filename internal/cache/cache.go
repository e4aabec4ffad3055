// Package cache tracks the derived image assets (avatars, banners) a
// session has cached, and answers the invalidation and stats requests of
// the wire protocol. Bookkeeping is local; when redis is configured the
// entries are mirrored there so invalidations reach every node.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "imgcache:"

type entry struct {
	size    int64
	expires time.Time
}

type Cache struct {
	sugar       *zap.SugaredLogger
	redisClient *redis.Client
	ttl         time.Duration

	mu      sync.RWMutex
	entries map[string]entry
	hits    uint64
	misses  uint64
	expired int
}

var redisCtx = context.Background()

// New builds a cache. A nil redis client keeps the node self-contained.
func New(sugar *zap.SugaredLogger, redisClient *redis.Client, ttl time.Duration) *Cache {
	c := &Cache{
		sugar:       sugar,
		redisClient: redisClient,
		ttl:         ttl,
		entries:     make(map[string]entry),
	}
	go c.sweepExpired()
	return c
}

func (c *Cache) sweepExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, e := range c.entries {
			if e.expires.Before(time.Now()) {
				delete(c.entries, key)
				c.expired++
			}
		}
		c.mu.Unlock()
	}
}

// Put records a cached asset and its size estimate in bytes.
func (c *Cache) Put(key string, size int64) {
	c.mu.Lock()
	c.entries[key] = entry{size: size, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	if c.redisClient != nil {
		if err := c.redisClient.Set(redisCtx, redisKeyPrefix+key, size, c.ttl).Err(); err != nil {
			c.sugar.Errorf("mirroring cache key [%s] to redis: %v", key, err)
		}
	}
}

// Touch records a lookup and reports whether the key is cached.
func (c *Cache) Touch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if exists && e.expires.After(time.Now()) {
		c.hits++
		return true
	}
	c.misses++
	return false
}

// Invalidate drops the given keys and returns the subset it actually
// recognized. Dropping an absent key is not an error, so the operation is
// idempotent and safe to retry.
func (c *Cache) Invalidate(keys []string) []string {
	processed := []string{}

	c.mu.Lock()
	for _, key := range keys {
		if _, exists := c.entries[key]; exists {
			delete(c.entries, key)
			processed = append(processed, key)
		}
	}
	c.mu.Unlock()

	if c.redisClient != nil && len(processed) > 0 {
		redisKeys := make([]string, len(processed))
		for i, key := range processed {
			redisKeys[i] = redisKeyPrefix + key
		}
		if err := c.redisClient.Del(redisCtx, redisKeys...).Err(); err != nil {
			c.sugar.Errorf("invalidating cache keys in redis: %v", err)
		}
	}

	return processed
}

type Stats struct {
	Entries  int
	SizeMB   float64
	HitRatio float64
	Expired  int
}

// Stats reports aggregate counters: entry count, size estimate in
// megabytes, hit ratio in [0,1], and how many entries expired since start.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var size int64
	for _, e := range c.entries {
		size += e.size
	}

	ratio := 0.0
	if lookups := c.hits + c.misses; lookups > 0 {
		ratio = float64(c.hits) / float64(lookups)
	}

	return Stats{
		Entries:  len(c.entries),
		SizeMB:   float64(size) / (1024 * 1024),
		HitRatio: ratio,
		Expired:  c.expired,
	}
}
