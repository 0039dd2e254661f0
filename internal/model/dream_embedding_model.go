package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DreamEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DreamId        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_dream_embeddings_dream_model"`
	UserId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Model          string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_dream_embeddings_dream_model"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-ada-002 uses 1536 dimensions
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (DreamEmbedding) TableName() string {
	return "dream_embeddings"
}
