package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"dream-journal-be/internal/entity"
)

func TestDreamEmbeddingMapper_MetadataRoundTrip(t *testing.T) {
	m := NewDreamEmbeddingMapper()

	src := &entity.DreamEmbedding{
		Id:        uuid.New(),
		DreamId:   uuid.New(),
		UserId:    uuid.New(),
		Model:     "text-embedding-ada-002",
		Embedding: []float32{0.1, 0.2, 0.3},
		Metadata:  map[string]interface{}{"text_length": float64(142)},
		CreatedAt: time.Now(),
	}

	row := m.ToModel(src)
	require.NotEmpty(t, row.Metadata)
	assert.JSONEq(t, `{"text_length": 142}`, string(row.Metadata))

	back := m.ToEntity(row)
	require.NotNil(t, back)
	assert.Equal(t, src.Metadata, back.Metadata)
	assert.Equal(t, src.Embedding, back.Embedding)
}

func TestDreamEmbeddingMapper_MalformedMetadataDegradesToNil(t *testing.T) {
	m := NewDreamEmbeddingMapper()

	src := &entity.DreamEmbedding{
		Id:        uuid.New(),
		DreamId:   uuid.New(),
		Embedding: []float32{0.5},
	}
	row := m.ToModel(src)
	row.Metadata = datatypes.JSON(`{not json`)

	back := m.ToEntity(row)
	require.NotNil(t, back)
	assert.Nil(t, back.Metadata)
}
