package contract

import (
	"context"

	"github.com/google/uuid"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/repository/specification"
)

type DreamEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *entity.DreamEmbedding) error
	DeleteByDreamId(ctx context.Context, dreamId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DreamEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilarWithScore returns embeddings with cosine similarity above the
	// threshold, most similar first. Embeddings of soft-deleted dreams are
	// excluded. excludeDreamId drops the query dream itself from the results.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64, excludeDreamId *uuid.UUID) ([]*entity.ScoredDreamEmbedding, error)
}
