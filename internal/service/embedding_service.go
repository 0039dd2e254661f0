package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/repository/specification"
	"dream-journal-be/internal/repository/unitofwork"
)

type IEmbeddingService interface {
	FindSimilarDreams(ctx context.Context, userId, dreamId uuid.UUID, limit int) ([]*dto.SimilarDreamResponse, error)
	GetDreamContext(ctx context.Context, userId, dreamId uuid.UUID) (*dto.DreamContextResponse, error)
}

type embeddingService struct {
	uowFactory     unitofwork.RepositoryFactory
	embeddingModel string
	minSimilarity  float64
	contextSize    int
}

func NewEmbeddingService(uowFactory unitofwork.RepositoryFactory, embeddingModel string, minSimilarity float64, contextSize int) IEmbeddingService {
	return &embeddingService{
		uowFactory:     uowFactory,
		embeddingModel: embeddingModel,
		minSimilarity:  minSimilarity,
		contextSize:    contextSize,
	}
}

func (s *embeddingService) FindSimilarDreams(ctx context.Context, userId, dreamId uuid.UUID, limit int) ([]*dto.SimilarDreamResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	scored, err := s.searchSimilar(ctx, uow, userId, dreamId, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SimilarDreamResponse, 0, len(scored))
	for _, hit := range scored {
		dream, err := uow.DreamRepository().FindOne(ctx,
			specification.ByID{ID: hit.DreamId},
			specification.WithInterpretation{},
		)
		if err != nil {
			return nil, err
		}
		if dream == nil {
			continue
		}

		resp := &dto.SimilarDreamResponse{
			Id:         dream.Id,
			Text:       dream.Text,
			DreamDate:  dream.DreamDate,
			Similarity: hit.Similarity,
		}
		if dream.Interpretation != nil {
			resp.MainSymbol = dream.Interpretation.MainSymbol
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (s *embeddingService) GetDreamContext(ctx context.Context, userId, dreamId uuid.UUID) (*dto.DreamContextResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	scored, err := s.searchSimilar(ctx, uow, userId, dreamId, s.contextSize)
	if err != nil {
		return nil, err
	}

	items := make([]ContextItem, 0, len(scored))
	similar := make([]dto.SimilarDreamResponse, 0, len(scored))
	for _, hit := range scored {
		dream, err := uow.DreamRepository().FindOne(ctx,
			specification.ByID{ID: hit.DreamId},
			specification.WithInterpretation{},
		)
		if err != nil {
			return nil, err
		}
		if dream == nil {
			continue
		}

		item := ContextItem{Similarity: hit.Similarity}
		resp := dto.SimilarDreamResponse{
			Id:         dream.Id,
			Text:       dream.Text,
			DreamDate:  dream.DreamDate,
			Similarity: hit.Similarity,
		}
		if dream.Interpretation != nil {
			item.MainSymbol = dream.Interpretation.MainSymbol
			for _, e := range dream.Interpretation.Emotions {
				item.Emotions = append(item.Emotions, e.Name)
			}
			resp.MainSymbol = dream.Interpretation.MainSymbol
		}
		items = append(items, item)
		similar = append(similar, resp)
	}

	context := AggregateContext(items)
	context.Similar = similar
	return context, nil
}

func (s *embeddingService) searchSimilar(ctx context.Context, uow unitofwork.UnitOfWork, userId, dreamId uuid.UUID, limit int) ([]*entity.ScoredDreamEmbedding, error) {
	source, err := uow.DreamEmbeddingRepository().FindOne(ctx,
		specification.Filter("dream_id", dreamId),
		specification.Filter("model", s.embeddingModel),
	)
	if err != nil {
		return nil, err
	}
	if source == nil {
		// Embedding worker has not processed this dream yet.
		return nil, nil
	}

	return uow.DreamEmbeddingRepository().SearchSimilarWithScore(
		ctx, source.Embedding, limit, userId, s.minSimilarity, &dreamId,
	)
}

// ContextItem is one similar dream's contribution to the aggregated context.
type ContextItem struct {
	Similarity float64
	MainSymbol string
	Emotions   []string
}

const maxRecurringEmotions = 5

// AggregateContext summarizes similar dreams into journal-level patterns:
// distinct symbols, the five most frequent emotions and the mean similarity.
func AggregateContext(items []ContextItem) *dto.DreamContextResponse {
	resp := &dto.DreamContextResponse{
		SimilarCount:      len(items),
		CommonSymbols:     []string{},
		RecurringEmotions: []string{},
	}
	if len(items) == 0 {
		return resp
	}

	seenSymbols := make(map[string]bool)
	emotionCounts := make(map[string]int)
	var totalSimilarity float64

	for _, item := range items {
		totalSimilarity += item.Similarity
		if item.MainSymbol != "" && !seenSymbols[item.MainSymbol] {
			seenSymbols[item.MainSymbol] = true
			resp.CommonSymbols = append(resp.CommonSymbols, item.MainSymbol)
		}
		for _, name := range item.Emotions {
			emotionCounts[name]++
		}
	}

	type emotionFreq struct {
		name  string
		count int
	}
	freqs := make([]emotionFreq, 0, len(emotionCounts))
	for name, count := range emotionCounts {
		freqs = append(freqs, emotionFreq{name, count})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].count != freqs[j].count {
			return freqs[i].count > freqs[j].count
		}
		return freqs[i].name < freqs[j].name
	})
	for i, f := range freqs {
		if i >= maxRecurringEmotions {
			break
		}
		resp.RecurringEmotions = append(resp.RecurringEmotions, f.name)
	}

	resp.AverageSimilarity = totalSimilarity / float64(len(items))
	return resp
}
