package aicache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeStore struct {
	values  map[string]string
	failing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.failing {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failing {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newTestCache(store Store) *Cache {
	return NewCache(store, "ai_cache", time.Hour, nopLogger{})
}

func TestKey_DeterministicAndModelScoped(t *testing.T) {
	c := newTestCache(newFakeStore())

	key1 := c.Key("prompt", "gpt-4-turbo-preview")
	key2 := c.Key("prompt", "gpt-4-turbo-preview")
	assert.Equal(t, key1, key2)
	assert.True(t, strings.HasPrefix(key1, "ai_cache:gpt-4-turbo-preview:"))

	// same prompt, different model must produce a different key
	assert.NotEqual(t, key1, c.Key("prompt", "gpt-4"))
	// different prompt, same model too
	assert.NotEqual(t, key1, c.Key("other prompt", "gpt-4-turbo-preview"))
}

func TestLookup_HitAndMiss(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(store)
	ctx := context.Background()

	key := c.Key("prompt", "gpt-4")
	_, result := c.Lookup(ctx, key)
	assert.Equal(t, Miss, result)

	c.Save(ctx, key, `{"main_symbol":"Сон"}`)

	val, result := c.Lookup(ctx, key)
	assert.Equal(t, Hit, result)
	assert.Equal(t, `{"main_symbol":"Сон"}`, val)
}

func TestLookup_UnavailableOnRedisError(t *testing.T) {
	store := newFakeStore()
	store.failing = true
	c := newTestCache(store)

	_, result := c.Lookup(context.Background(), "ai_cache:gpt-4:abc")
	assert.Equal(t, Unavailable, result)
}

func TestInvalidate_RemovesEntry(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(store)
	ctx := context.Background()

	key := c.Key("prompt", "gpt-4")
	c.Save(ctx, key, "cached")
	c.Invalidate(ctx, key)

	_, result := c.Lookup(ctx, key)
	assert.Equal(t, Miss, result)
}
