package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/pkg/logger"
)

// Store is the subset of the redis client the counter needs.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Status is a point-in-time view of a user's daily quota.
type Status struct {
	Used      int
	Limit     int
	Remaining int
	Unlimited bool
	Allowed   bool
}

// Counter tracks per-user daily submission counts in Redis. Redis being down
// never blocks a submission: enforcement fails open.
type Counter struct {
	store     Store
	keyPrefix string
	ttl       time.Duration
	log       logger.ILogger
	now       func() time.Time
}

func NewCounter(store Store, keyPrefix string, ttl time.Duration, log logger.ILogger) *Counter {
	return &Counter{
		store:     store,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// Key builds the daily counter key, e.g. quota:dreams:<user>:<2026-08-30>.
func (c *Counter) Key(userId uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", c.keyPrefix, userId.String(), day.UTC().Format("2006-01-02"))
}

// Check reports whether the user may submit another dream today under the
// given daily limit. Unlimited plans skip Redis entirely.
func (c *Counter) Check(ctx context.Context, userId uuid.UUID, limit int) Status {
	if entity.IsUnlimitedLimit(limit) {
		return Status{
			Limit:     limit,
			Remaining: limit,
			Unlimited: true,
			Allowed:   true,
		}
	}

	used, err := c.used(ctx, userId)
	if err != nil {
		// Fail open: quota is an abuse guard, not a billing ledger.
		c.log.Warn("quota", "quota check failed, allowing request", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return Status{
			Limit:     limit,
			Remaining: limit,
			Allowed:   true,
		}
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
		Allowed:   used < limit,
	}
}

// Increment bumps the user's counter after a successful submission and sets
// the daily TTL on first use. Unlimited plans are never counted.
func (c *Counter) Increment(ctx context.Context, userId uuid.UUID, limit int) {
	if entity.IsUnlimitedLimit(limit) {
		return
	}

	key := c.Key(userId, c.now())
	count, err := c.store.Incr(ctx, key).Result()
	if err != nil {
		c.log.Warn("quota", "quota increment failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return
	}
	if count == 1 {
		if err := c.store.Expire(ctx, key, c.ttl).Err(); err != nil {
			c.log.Warn("quota", "quota expire failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
}

func (c *Counter) used(ctx context.Context, userId uuid.UUID) (int, error) {
	key := c.Key(userId, c.now())
	val, err := c.store.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}
