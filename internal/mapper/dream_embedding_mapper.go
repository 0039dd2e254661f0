package mapper

import (
	"encoding/json"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/model"
)

type DreamEmbeddingMapper struct{}

func NewDreamEmbeddingMapper() *DreamEmbeddingMapper {
	return &DreamEmbeddingMapper{}
}

func (m *DreamEmbeddingMapper) ToEntity(e *model.DreamEmbedding) *entity.DreamEmbedding {
	if e == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(e.Metadata) > 0 {
		// Malformed rows degrade to nil metadata instead of failing the read.
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	return &entity.DreamEmbedding{
		Id:        e.Id,
		DreamId:   e.DreamId,
		UserId:    e.UserId,
		Model:     e.Model,
		Embedding: e.EmbeddingValue.Slice(),
		Metadata:  metadata,
		CreatedAt: e.CreatedAt,
	}
}

func (m *DreamEmbeddingMapper) ToModel(e *entity.DreamEmbedding) *model.DreamEmbedding {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.DreamEmbedding{
		Id:             e.Id,
		DreamId:        e.DreamId,
		UserId:         e.UserId,
		Model:          e.Model,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DreamEmbeddingMapper) ToEntities(embeddings []*model.DreamEmbedding) []*entity.DreamEmbedding {
	entities := make([]*entity.DreamEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
