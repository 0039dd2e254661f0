package unitofwork

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"dream-journal-be/internal/repository/contract"
	"dream-journal-be/internal/repository/implementation"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DreamRepository() contract.DreamRepository {
	return implementation.NewDreamRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DreamEmbeddingRepository() contract.DreamEmbeddingRepository {
	return implementation.NewDreamEmbeddingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SubscriptionRepository() contract.SubscriptionRepository {
	return implementation.NewSubscriptionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AIResponseCacheRepository() contract.AIResponseCacheRepository {
	return implementation.NewAIResponseCacheRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UserStatsRepository() contract.UserStatsRepository {
	return implementation.NewUserStatsRepository(u.getDB())
}
