package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/mapper"
	"dream-journal-be/internal/model"
	"dream-journal-be/internal/repository/contract"
	"dream-journal-be/internal/repository/specification"
)

type DreamEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DreamEmbeddingMapper
}

func NewDreamEmbeddingRepository(db *gorm.DB) contract.DreamEmbeddingRepository {
	return &DreamEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewDreamEmbeddingMapper(),
	}
}

func (r *DreamEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DreamEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.DreamEmbedding) error {
	m := r.mapper.ToModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dream_id"}, {Name: "model"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding_value", "metadata", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *DreamEmbeddingRepositoryImpl) DeleteByDreamId(ctx context.Context, dreamId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("dream_id = ?", dreamId).Delete(&model.DreamEmbedding{}).Error
}

func (r *DreamEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DreamEmbedding, error) {
	var m model.DreamEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DreamEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DreamEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore runs a cosine similarity scan over the user's
// embeddings. Cosine distance in pgvector is 1 - cosine_similarity, so
// 1 - (embedding_value <=> query_vector) yields the similarity.
func (r *DreamEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64, excludeDreamId *uuid.UUID) ([]*entity.ScoredDreamEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.DreamEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("dream_embeddings").
		Select("dream_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN dreams ON dreams.id = dream_embeddings.dream_id").
		Where("dream_embeddings.user_id = ?", userId).
		Where("dream_embeddings.deleted_at IS NULL").
		Where("dreams.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)

	if excludeDreamId != nil {
		query = query.Where("dream_embeddings.dream_id != ?", *excludeDreamId)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredDreamEmbedding, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredDreamEmbedding{
			DreamEmbedding: *r.mapper.ToEntity(&res.DreamEmbedding),
			Similarity:     res.Similarity,
		}
	}
	return scored, nil
}
