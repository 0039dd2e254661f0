package aicache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dream-journal-be/internal/pkg/logger"
)

// Store is the subset of the redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LookupResult distinguishes a genuine miss from Redis being unreachable, so
// callers can decide whether to write back.
type LookupResult int

const (
	Hit LookupResult = iota
	Miss
	Unavailable
)

// Cache memoizes model responses in Redis keyed by a prompt digest.
type Cache struct {
	store     Store
	keyPrefix string
	ttl       time.Duration
	log       logger.ILogger
}

func NewCache(store Store, keyPrefix string, ttl time.Duration, log logger.ILogger) *Cache {
	return &Cache{
		store:     store,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		log:       log,
	}
}

// Key derives the deterministic cache key for a prompt and model:
// ai_cache:<model>:<sha256(prompt:model)>.
func (c *Cache) Key(prompt, model string) string {
	digest := sha256.Sum256([]byte(prompt + ":" + model))
	return fmt.Sprintf("%s:%s:%s", c.keyPrefix, model, hex.EncodeToString(digest[:]))
}

// TTL reports the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Lookup fetches a cached response. A Redis error is reported as Unavailable
// rather than a miss so the caller can skip the write-back.
func (c *Cache) Lookup(ctx context.Context, key string) (string, LookupResult) {
	val, err := c.store.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", Miss
		}
		c.log.Warn("aicache", "cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return "", Unavailable
	}
	return val, Hit
}

// Save stores a response under the key with the configured TTL. Failures are
// logged and swallowed; caching is best effort.
func (c *Cache) Save(ctx context.Context, key, response string) {
	if err := c.store.Set(ctx, key, response, c.ttl).Err(); err != nil {
		c.log.Warn("aicache", "cache save failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Invalidate removes a cached entry.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.store.Del(ctx, key).Err(); err != nil {
		c.log.Warn("aicache", "cache invalidate failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
