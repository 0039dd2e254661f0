package contract

import (
	"context"

	"dream-journal-be/internal/entity"
)

type AIResponseCacheRepository interface {
	// UpsertByKey inserts or refreshes the row for a cache key.
	UpsertByKey(ctx context.Context, row *entity.AIResponseCache) error
	FindByKey(ctx context.Context, cacheKey string) (*entity.AIResponseCache, error)
	IncrementHit(ctx context.Context, cacheKey string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
