package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/pkg/logger"
	"dream-journal-be/internal/repository/specification"
	"dream-journal-be/internal/repository/unitofwork"
	"dream-journal-be/pkg/embedding"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed-dream topic: each message loads the dream,
// generates its vector and upserts it into pgvector.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	batchSize         int
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	batchSize int,
	log logger.ILogger,
) IConsumerService {
	if batchSize < 1 {
		batchSize = 20
	}
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		batchSize:         batchSize,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go cs.backfillMissing(ctx)

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// backfillMissing embeds dreams whose queued job was lost (crash, queue
// restart). Batches are processed sequentially to bound memory and API load.
func (cs *consumerService) backfillMissing(ctx context.Context) {
	for {
		uow := cs.uowFactory.NewUnitOfWork(ctx)
		dreams, err := uow.DreamRepository().FindWithoutEmbedding(ctx, cs.batchSize)
		if err != nil {
			cs.log.Error("consumer", "embedding backfill query failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		if len(dreams) == 0 {
			return
		}

		for _, dream := range dreams {
			if err := cs.embedDream(ctx, uow, dream); err != nil {
				return
			}
		}
		if len(dreams) < cs.batchSize {
			return
		}
	}
}

func (cs *consumerService) embedDream(ctx context.Context, uow unitofwork.UnitOfWork, dream *entity.Dream) error {
	resp, err := cs.embeddingProvider.Generate(ctx, dream.Text)
	if err != nil {
		cs.log.Error("consumer", "embedding generation failed", map[string]interface{}{
			"dream_id": dream.Id.String(),
			"error":    err.Error(),
		})
		return err
	}

	emb := &entity.DreamEmbedding{
		Id:        uuid.New(),
		DreamId:   dream.Id,
		UserId:    dream.UserId,
		Model:     resp.Model,
		Embedding: resp.Embedding,
		Metadata:  map[string]interface{}{"text_length": len([]rune(dream.Text))},
		CreatedAt: time.Now(),
	}

	if err := uow.DreamEmbeddingRepository().Upsert(ctx, emb); err != nil {
		cs.log.Error("consumer", "failed to store embedding", map[string]interface{}{
			"dream_id": dream.Id.String(),
			"error":    err.Error(),
		})
		return err
	}

	cs.log.Info("consumer", "dream embedded", map[string]interface{}{
		"dream_id": dream.Id.String(),
		"model":    resp.Model,
	})
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDreamMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	dream, err := uow.DreamRepository().FindOne(ctx, specification.ByID{ID: payload.DreamId})
	if err != nil {
		cs.log.Error("consumer", "failed to load dream for embedding", map[string]interface{}{
			"dream_id": payload.DreamId.String(),
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}
	if dream == nil {
		// Dream deleted before the worker got to it.
		msg.Ack()
		return
	}

	if err := cs.embedDream(ctx, uow, dream); err != nil {
		msg.Nack()
		return
	}
	msg.Ack()
}
