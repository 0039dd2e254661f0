package entity

import (
	"time"

	"github.com/google/uuid"
)

type DreamEmbedding struct {
	Id        uuid.UUID
	DreamId   uuid.UUID
	UserId    uuid.UUID
	Model     string
	Embedding []float32
	// Metadata carries generation details, such as the source text length.
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// ScoredDreamEmbedding pairs an embedding row with its cosine similarity to a query vector.
type ScoredDreamEmbedding struct {
	DreamEmbedding
	Similarity float64
}
