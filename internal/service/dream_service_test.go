package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/repository/contract"
	"dream-journal-be/internal/repository/specification"
	"dream-journal-be/internal/repository/unitofwork"
	"dream-journal-be/pkg/aicache"
	"dream-journal-be/pkg/interpreter"
	"dream-journal-be/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: make(map[string]string)}
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) *redis.StringCmd {
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedisStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type countingProvider struct {
	content string
	calls   int
}

func (p *countingProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	p.calls++
	return &llm.Completion{Content: p.content, Model: "gpt-4-turbo-preview"}, nil
}

func (p *countingProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, nil, opts...)
}

type fakeDreamRepo struct {
	dream         *entity.Dream
	updated       *entity.Dream
	savedInterp   *entity.DreamInterpretation
	replacedTags  []entity.DreamTag
	symbolCounts  map[string]int64
	countedSymbol string
	missing       [][]*entity.Dream
}

func (r *fakeDreamRepo) Create(ctx context.Context, dream *entity.Dream) error { return nil }

func (r *fakeDreamRepo) Update(ctx context.Context, dream *entity.Dream) error {
	copied := *dream
	r.updated = &copied
	return nil
}

func (r *fakeDreamRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeDreamRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dream, error) {
	return r.dream, nil
}

func (r *fakeDreamRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dream, error) {
	return nil, nil
}

func (r *fakeDreamRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeDreamRepo) CountByMainSymbol(ctx context.Context, userId uuid.UUID, symbol string) (int64, error) {
	r.countedSymbol = symbol
	return r.symbolCounts[symbol], nil
}

func (r *fakeDreamRepo) FindWithoutEmbedding(ctx context.Context, limit int) ([]*entity.Dream, error) {
	if len(r.missing) == 0 {
		return nil, nil
	}
	batch := r.missing[0]
	r.missing = r.missing[1:]
	if len(batch) > limit {
		batch = batch[:limit]
	}
	return batch, nil
}

func (r *fakeDreamRepo) SaveInterpretation(ctx context.Context, interpretation *entity.DreamInterpretation) error {
	copied := *interpretation
	r.savedInterp = &copied
	return nil
}

func (r *fakeDreamRepo) ReplaceTags(ctx context.Context, dreamId uuid.UUID, tags []entity.DreamTag) error {
	r.replacedTags = tags
	return nil
}

type fakeStatsRepo struct {
	stats *entity.UserStats
	saved *entity.UserStats
}

func (r *fakeStatsRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserStats, error) {
	return r.stats, nil
}

func (r *fakeStatsRepo) Save(ctx context.Context, stats *entity.UserStats) error {
	copied := *stats
	r.saved = &copied
	return nil
}

type fakeAICacheRepo struct {
	hits int
}

func (r *fakeAICacheRepo) UpsertByKey(ctx context.Context, row *entity.AIResponseCache) error {
	return nil
}

func (r *fakeAICacheRepo) FindByKey(ctx context.Context, cacheKey string) (*entity.AIResponseCache, error) {
	return nil, nil
}

func (r *fakeAICacheRepo) IncrementHit(ctx context.Context, cacheKey string) error {
	r.hits++
	return nil
}

func (r *fakeAICacheRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

type fakeSubscriptionRepo struct {
	active *entity.Subscription
	lapsed []*entity.Subscription
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error { return nil }
func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error { return nil }

func (r *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindActiveByUserId(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	return r.active, nil
}

func (r *fakeSubscriptionRepo) FindByOrderId(ctx context.Context, orderId string) (*entity.Subscription, error) {
	return nil, nil
}

func (r *fakeSubscriptionRepo) HasEverTrialed(ctx context.Context, userId uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeSubscriptionRepo) ExpireLapsed(ctx context.Context) ([]*entity.Subscription, error) {
	return r.lapsed, nil
}

type fakeEmbeddingRepo struct {
	upserted []*entity.DreamEmbedding
}

func (r *fakeEmbeddingRepo) Upsert(ctx context.Context, embedding *entity.DreamEmbedding) error {
	r.upserted = append(r.upserted, embedding)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByDreamId(ctx context.Context, dreamId uuid.UUID) error {
	return nil
}

func (r *fakeEmbeddingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DreamEmbedding, error) {
	return nil, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64, excludeDreamId *uuid.UUID) ([]*entity.ScoredDreamEmbedding, error) {
	return nil, nil
}

type fakeUnitOfWork struct {
	dreams     *fakeDreamRepo
	stats      *fakeStatsRepo
	aiCache    *fakeAICacheRepo
	subs       *fakeSubscriptionRepo
	embeddings *fakeEmbeddingRepo

	begun     bool
	committed bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begun = true; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return nil }
func (u *fakeUnitOfWork) DreamRepository() contract.DreamRepository {
	return u.dreams
}
func (u *fakeUnitOfWork) DreamEmbeddingRepository() contract.DreamEmbeddingRepository {
	return u.embeddings
}
func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return u.subs
}
func (u *fakeUnitOfWork) AIResponseCacheRepository() contract.AIResponseCacheRepository {
	return u.aiCache
}
func (u *fakeUnitOfWork) UserStatsRepository() contract.UserStatsRepository {
	return u.stats
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakePolicyService struct {
	policy entity.SubscriptionPolicy
}

func (s *fakePolicyService) GetStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	return nil, errors.New("not implemented")
}
func (s *fakePolicyService) ListPlans() []dto.PlanResponse { return nil }
func (s *fakePolicyService) EffectivePolicy(ctx context.Context, userId uuid.UUID) (entity.SubscriptionPolicy, error) {
	return s.policy, nil
}
func (s *fakePolicyService) StartTrial(ctx context.Context, userId uuid.UUID) (*dto.StartTrialResponse, error) {
	return nil, errors.New("not implemented")
}
func (s *fakePolicyService) Cancel(ctx context.Context, userId uuid.UUID) error { return nil }
func (s *fakePolicyService) SweepExpired(ctx context.Context) (int, error)      { return 0, nil }
func (s *fakePolicyService) InvalidatePolicy(userId uuid.UUID)                  {}

type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

const interpretationJSON = `{
	"main_symbol": "Вода",
	"main_symbol_emoji": "🌊",
	"interpretation": "Вода во сне отражает эмоциональное состояние.",
	"emotions": [{"name": "спокойствие", "intensity": "средняя", "meaning": "принятие"}],
	"advice": "Прислушайтесь к своим чувствам.",
	"tags": ["вода", "море"]
}`

func newTestDreamService(uow *fakeUnitOfWork, provider llm.LLMProvider, embedPub IPublisherService) IDreamService {
	interp := interpreter.NewInterpreter(provider, "gpt-4-turbo-preview")
	cache := aicache.NewCache(newFakeRedisStore(), "ai_cache", time.Hour, nopLogger{})
	return NewDreamService(
		&fakeUowFactory{uow: uow},
		&fakePolicyService{policy: entity.PolicyFor(entity.SubscriptionTypePro)},
		nil,
		interp,
		cache,
		nil,
		nil,
		nil,
		embedPub,
		"ru",
		nopLogger{},
	)
}

func existingDream(userId uuid.UUID) *entity.Dream {
	return &entity.Dream{
		Id:        uuid.New(),
		UserId:    userId,
		Text:      "Мне снилось, что я иду по бесконечному лесу",
		Source:    entity.DreamSourceText,
		Language:  "ru",
		DreamDate: time.Now().AddDate(0, 0, -1),
		CreatedAt: time.Now().AddDate(0, 0, -1),
		Interpretation: &entity.DreamInterpretation{
			Id:         uuid.New(),
			MainSymbol: "Лес",
		},
	}
}

func TestDreamService_UpdateReinterpretsOnTextChange(t *testing.T) {
	userId := uuid.New()
	repo := &fakeDreamRepo{dream: existingDream(userId)}
	uow := &fakeUnitOfWork{dreams: repo, stats: &fakeStatsRepo{}, aiCache: &fakeAICacheRepo{}}
	provider := &countingProvider{content: interpretationJSON}
	embedPub := &capturingPublisher{}

	svc := newTestDreamService(uow, provider, embedPub)

	res, err := svc.Update(context.Background(), userId, repo.dream.Id, &dto.UpdateDreamRequest{
		Text: "Мне снилось, что я плыву по огромному тёплому морю",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "Мне снилось, что я плыву по огромному тёплому морю", repo.updated.Text)
	require.NotNil(t, repo.savedInterp)
	assert.Equal(t, "Вода", repo.savedInterp.MainSymbol)
	assert.Len(t, repo.replacedTags, 2)
	// Changed text must re-enqueue the embedding job.
	assert.Len(t, embedPub.payloads, 1)
	assert.True(t, uow.committed)

	require.NotNil(t, res.Interpretation)
	assert.Equal(t, "Вода", res.Interpretation.MainSymbol)
}

func TestDreamService_UpdateKeepsInterpretationWhenTextUnchanged(t *testing.T) {
	userId := uuid.New()
	repo := &fakeDreamRepo{dream: existingDream(userId)}
	uow := &fakeUnitOfWork{dreams: repo, stats: &fakeStatsRepo{}, aiCache: &fakeAICacheRepo{}}
	provider := &countingProvider{content: interpretationJSON}
	embedPub := &capturingPublisher{}

	svc := newTestDreamService(uow, provider, embedPub)

	newDate := time.Now().AddDate(0, 0, -3)
	res, err := svc.Update(context.Background(), userId, repo.dream.Id, &dto.UpdateDreamRequest{
		Text:      repo.dream.Text,
		DreamDate: &newDate,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, provider.calls)
	assert.Nil(t, repo.savedInterp)
	assert.Empty(t, embedPub.payloads)
	require.NotNil(t, repo.updated)
	assert.True(t, newDate.Equal(repo.updated.DreamDate))
	require.NotNil(t, res.Interpretation)
	assert.Equal(t, "Лес", res.Interpretation.MainSymbol)
}

func TestDreamService_UpdateRejectsShortText(t *testing.T) {
	userId := uuid.New()
	repo := &fakeDreamRepo{dream: existingDream(userId)}
	uow := &fakeUnitOfWork{dreams: repo, stats: &fakeStatsRepo{}, aiCache: &fakeAICacheRepo{}}
	provider := &countingProvider{content: interpretationJSON}

	svc := newTestDreamService(uow, provider, &capturingPublisher{})

	_, err := svc.Update(context.Background(), userId, repo.dream.Id, &dto.UpdateDreamRequest{Text: "коротко"})
	require.Error(t, err)
	assert.Equal(t, 0, provider.calls)
	assert.Nil(t, repo.updated)
}
