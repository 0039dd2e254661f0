package quota

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"dream-journal-be/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeStore is an in-memory Store double.
type fakeStore struct {
	counts  map[string]int64
	expires map[string]time.Duration
	failing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counts:  make(map[string]int64),
		expires: make(map[string]time.Duration),
	}
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.failing {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	count, ok := f.counts[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(count, 10), nil)
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.failing {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeStore) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func newTestCounter(store Store) *Counter {
	c := NewCounter(store, "quota:dreams", 24*time.Hour, nopLogger{})
	c.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestKey_Format(t *testing.T) {
	c := newTestCounter(newFakeStore())
	userId := uuid.MustParse("4f5c1fb2-58b7-46b5-b9a9-67f41f16a0a1")
	key := c.Key(userId, time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "quota:dreams:4f5c1fb2-58b7-46b5-b9a9-67f41f16a0a1:2026-08-30", key)
}

func TestCheck_FreePlanAllowsThenBlocks(t *testing.T) {
	store := newFakeStore()
	c := newTestCounter(store)
	userId := uuid.New()

	status := c.Check(context.Background(), userId, 1)
	assert.True(t, status.Allowed)
	assert.Equal(t, 1, status.Remaining)

	c.Increment(context.Background(), userId, 1)

	status = c.Check(context.Background(), userId, 1)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Remaining)
	assert.Equal(t, 1, status.Used)
}

func TestCheck_UnlimitedSkipsRedis(t *testing.T) {
	store := newFakeStore()
	store.failing = true // would fail if touched
	c := newTestCounter(store)

	status := c.Check(context.Background(), uuid.New(), entity.UnlimitedDailyLimit)
	assert.True(t, status.Allowed)
	assert.True(t, status.Unlimited)
}

func TestCheck_FailsOpenWhenRedisDown(t *testing.T) {
	store := newFakeStore()
	store.failing = true
	c := newTestCounter(store)

	status := c.Check(context.Background(), uuid.New(), 1)
	assert.True(t, status.Allowed)
	assert.Equal(t, 1, status.Remaining)
}

func TestIncrement_SetsTTLOnFirstUse(t *testing.T) {
	store := newFakeStore()
	c := newTestCounter(store)
	userId := uuid.New()

	c.Increment(context.Background(), userId, 3)
	key := c.Key(userId, c.now())
	assert.Equal(t, 24*time.Hour, store.expires[key])

	// second increment must not reset the TTL
	delete(store.expires, key)
	c.Increment(context.Background(), userId, 3)
	_, reset := store.expires[key]
	assert.False(t, reset)
}

func TestIncrement_UnlimitedNotCounted(t *testing.T) {
	store := newFakeStore()
	c := newTestCounter(store)
	userId := uuid.New()

	c.Increment(context.Background(), userId, entity.UnlimitedDailyLimit)
	assert.Empty(t, store.counts)
}
