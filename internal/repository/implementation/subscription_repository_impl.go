package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/mapper"
	"dream-journal-be/internal/model"
	"dream-journal-be/internal/repository/contract"
	"dream-journal-be/internal/repository/specification"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SubscriptionRepositoryImpl) FindActiveByUserId(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	var m model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Where("status IN ?", []string{
			string(entity.SubscriptionStatusActive),
			string(entity.SubscriptionStatusCancelled),
		}).
		Where("current_period_end > ?", time.Now()).
		Order("current_period_end DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindByOrderId(ctx context.Context, orderId string) (*entity.Subscription, error) {
	var m model.Subscription
	err := r.db.WithContext(ctx).Where("midtrans_order_id = ?", orderId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) HasEverTrialed(ctx context.Context, userId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Unscoped().
		Where("user_id = ? AND type = ?", userId, string(entity.SubscriptionTypeTrial)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SubscriptionRepositoryImpl) ExpireLapsed(ctx context.Context) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(entity.SubscriptionStatusActive),
			string(entity.SubscriptionStatusCancelled),
		}).
		Where("current_period_end <= ?", time.Now()).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(models))
	for i, m := range models {
		ids[i] = m.Id
	}
	err = r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id IN ?", ids).
		Update("status", string(entity.SubscriptionStatusExpired)).Error
	if err != nil {
		return nil, err
	}

	for _, m := range models {
		m.Status = string(entity.SubscriptionStatusExpired)
	}
	return r.mapper.ToEntities(models), nil
}
