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
	"dream-journal-be/internal/repository/specification"
)

type DreamRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DreamMapper
}

func NewDreamRepository(db *gorm.DB) contract.DreamRepository {
	return &DreamRepositoryImpl{
		db:     db,
		mapper: mapper.NewDreamMapper(),
	}
}

func (r *DreamRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DreamRepositoryImpl) Create(ctx context.Context, dream *entity.Dream) error {
	m := r.mapper.ToModel(dream)
	if err := r.db.WithContext(ctx).Omit("Interpretation").Create(m).Error; err != nil {
		return err
	}
	created := r.mapper.ToEntity(m)
	created.Interpretation = dream.Interpretation
	*dream = *created
	return nil
}

func (r *DreamRepositoryImpl) Update(ctx context.Context, dream *entity.Dream) error {
	m := r.mapper.ToModel(dream)
	if err := r.db.WithContext(ctx).Omit("Interpretation", "Tags").Save(m).Error; err != nil {
		return err
	}
	return nil
}

func (r *DreamRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dream{}, id).Error
}

func (r *DreamRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dream, error) {
	var m model.Dream
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DreamRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dream, error) {
	var models []*model.Dream
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DreamRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Dream{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DreamRepositoryImpl) FindWithoutEmbedding(ctx context.Context, limit int) ([]*entity.Dream, error) {
	var models []*model.Dream
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM dream_embeddings WHERE dream_embeddings.dream_id = dreams.id)").
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DreamRepositoryImpl) CountByMainSymbol(ctx context.Context, userId uuid.UUID, symbol string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DreamInterpretation{}).
		Joins("JOIN dreams ON dreams.id = dream_interpretations.dream_id").
		Where("dreams.user_id = ? AND dreams.deleted_at IS NULL", userId).
		Where("dream_interpretations.main_symbol = ?", symbol).
		Count(&count).Error
	return count, err
}

func (r *DreamRepositoryImpl) SaveInterpretation(ctx context.Context, interpretation *entity.DreamInterpretation) error {
	m, err := r.mapper.InterpretationToModel(interpretation)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dream_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*interpretation = *r.mapper.InterpretationToEntity(m)
	return nil
}

func (r *DreamRepositoryImpl) ReplaceTags(ctx context.Context, dreamId uuid.UUID, tags []entity.DreamTag) error {
	if err := r.db.WithContext(ctx).Where("dream_id = ?", dreamId).Delete(&model.DreamTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	models := make([]*model.DreamTag, len(tags))
	for i, t := range tags {
		models[i] = &model.DreamTag{
			Id:      t.Id,
			DreamId: dreamId,
			Name:    t.Name,
		}
	}
	return r.db.WithContext(ctx).Create(models).Error
}
