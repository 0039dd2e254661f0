package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/mapper"
	"dream-journal-be/internal/model"
	"dream-journal-be/internal/repository/contract"
)

type UserStatsRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserStatsMapper
}

func NewUserStatsRepository(db *gorm.DB) contract.UserStatsRepository {
	return &UserStatsRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserStatsMapper(),
	}
}

func (r *UserStatsRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserStats, error) {
	var m model.UserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserStatsRepositoryImpl) Save(ctx context.Context, stats *entity.UserStats) error {
	m := r.mapper.ToModel(stats)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*stats = *r.mapper.ToEntity(m)
	return nil
}
