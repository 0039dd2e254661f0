package contract

import (
	"context"

	"github.com/google/uuid"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/repository/specification"
)

type DreamRepository interface {
	Create(ctx context.Context, dream *entity.Dream) error
	Update(ctx context.Context, dream *entity.Dream) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dream, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dream, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByMainSymbol(ctx context.Context, userId uuid.UUID, symbol string) (int64, error)

	// FindWithoutEmbedding returns up to limit dreams that have no stored
	// vector yet, oldest first.
	FindWithoutEmbedding(ctx context.Context, limit int) ([]*entity.Dream, error)

	// Interpretation and tags are written together with the dream inside the
	// same unit of work.
	SaveInterpretation(ctx context.Context, interpretation *entity.DreamInterpretation) error
	ReplaceTags(ctx context.Context, dreamId uuid.UUID, tags []entity.DreamTag) error
}
