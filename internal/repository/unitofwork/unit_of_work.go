package unitofwork

import (
	"context"

	"dream-journal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DreamRepository() contract.DreamRepository
	DreamEmbeddingRepository() contract.DreamEmbeddingRepository
	SubscriptionRepository() contract.SubscriptionRepository
	AIResponseCacheRepository() contract.AIResponseCacheRepository
	UserStatsRepository() contract.UserStatsRepository
}
