package implementation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/mapper"
	"dream-journal-be/internal/model"
	"dream-journal-be/internal/repository/contract"
)

type AIResponseCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AIResponseCacheMapper
}

func NewAIResponseCacheRepository(db *gorm.DB) contract.AIResponseCacheRepository {
	return &AIResponseCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewAIResponseCacheMapper(),
	}
}

func (r *AIResponseCacheRepositoryImpl) UpsertByKey(ctx context.Context, row *entity.AIResponseCache) error {
	m := r.mapper.ToModel(row)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"response", "expires_at", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*row = *r.mapper.ToEntity(m)
	return nil
}

func (r *AIResponseCacheRepositoryImpl) FindByKey(ctx context.Context, cacheKey string) (*entity.AIResponseCache, error) {
	var m model.AIResponseCache
	err := r.db.WithContext(ctx).Where("cache_key = ?", cacheKey).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AIResponseCacheRepositoryImpl) IncrementHit(ctx context.Context, cacheKey string) error {
	return r.db.WithContext(ctx).
		Model(&model.AIResponseCache{}).
		Where("cache_key = ?", cacheKey).
		Update("hit_count", gorm.Expr("hit_count + 1")).Error
}

func (r *AIResponseCacheRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.AIResponseCache{})
	return res.RowsAffected, res.Error
}
