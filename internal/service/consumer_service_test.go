package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream-journal-be/internal/entity"
	"dream-journal-be/pkg/embedding"
)

type stubEmbeddingProvider struct {
	calls int
}

func (p *stubEmbeddingProvider) Generate(ctx context.Context, text string) (*embedding.EmbeddingResponse, error) {
	p.calls++
	return &embedding.EmbeddingResponse{
		Embedding: []float32{0.1, 0.2},
		Model:     "text-embedding-ada-002",
	}, nil
}

func backfillDream(text string) *entity.Dream {
	return &entity.Dream{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Text:   text,
	}
}

func TestConsumerService_BackfillEmbedsAllBatches(t *testing.T) {
	embeddings := &fakeEmbeddingRepo{}
	dreams := &fakeDreamRepo{missing: [][]*entity.Dream{
		{backfillDream("Мне снился лес"), backfillDream("Мне снилось море")},
		{backfillDream("Мне снился полет")},
	}}
	uow := &fakeUnitOfWork{dreams: dreams, embeddings: embeddings}
	provider := &stubEmbeddingProvider{}

	svc := NewConsumerService(nil, "EMBED_DREAM_TEXT", &fakeUowFactory{uow: uow}, provider, 2, nopLogger{})
	svc.(*consumerService).backfillMissing(context.Background())

	assert.Equal(t, 3, provider.calls)
	require.Len(t, embeddings.upserted, 3)
	// Generation details ride along as metadata on every stored vector.
	assert.Equal(t, len([]rune("Мне снился лес")), embeddings.upserted[0].Metadata["text_length"])
	assert.Equal(t, "text-embedding-ada-002", embeddings.upserted[0].Model)
}

func TestConsumerService_BackfillStopsOnShortBatch(t *testing.T) {
	embeddings := &fakeEmbeddingRepo{}
	dreams := &fakeDreamRepo{missing: [][]*entity.Dream{
		{backfillDream("Мне снился единственный сон")},
		{backfillDream("Этот сон не должен быть обработан")},
	}}
	uow := &fakeUnitOfWork{dreams: dreams, embeddings: embeddings}
	provider := &stubEmbeddingProvider{}

	svc := NewConsumerService(nil, "EMBED_DREAM_TEXT", &fakeUowFactory{uow: uow}, provider, 5, nopLogger{})
	svc.(*consumerService).backfillMissing(context.Background())

	// A batch smaller than the batch size means the table is drained.
	assert.Equal(t, 1, provider.calls)
	assert.Len(t, embeddings.upserted, 1)
}
