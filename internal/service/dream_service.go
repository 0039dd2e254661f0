package service

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/pkg/apperror"
	"dream-journal-be/internal/pkg/logger"
	"dream-journal-be/internal/repository/specification"
	"dream-journal-be/internal/repository/unitofwork"
	"dream-journal-be/pkg/aicache"
	"dream-journal-be/pkg/events"
	"dream-journal-be/pkg/interpreter"
	pkgNats "dream-journal-be/pkg/nats"
	"dream-journal-be/pkg/quota"
	"dream-journal-be/pkg/speech"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	recentThemeCount = 5
)

type IDreamService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDreamRequest) (*dto.DreamResponse, error)
	Update(ctx context.Context, userId, dreamId uuid.UUID, req *dto.UpdateDreamRequest) (*dto.DreamResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListDreamsRequest) (*dto.ListDreamsResponse, error)
	Show(ctx context.Context, userId, dreamId uuid.UUID) (*dto.DreamResponse, error)
	Delete(ctx context.Context, userId, dreamId uuid.UUID) error

	Transcribe(ctx context.Context, userId uuid.UUID, audio io.Reader, filename, language string) (*dto.TranscribeResponse, error)
	Synthesize(ctx context.Context, userId, dreamId uuid.UUID) ([]byte, error)

	GetSimilar(ctx context.Context, userId, dreamId uuid.UUID, limit int) ([]*dto.SimilarDreamResponse, error)
	GetContext(ctx context.Context, userId, dreamId uuid.UUID) (*dto.DreamContextResponse, error)

	GetQuotaStatus(ctx context.Context, userId uuid.UUID) (*dto.QuotaStatusResponse, error)
	Export(ctx context.Context, userId uuid.UUID) (*dto.ExportDreamsResponse, error)
}

type dreamService struct {
	uowFactory          unitofwork.RepositoryFactory
	subscriptionService ISubscriptionService
	embeddingService    IEmbeddingService
	interp              *interpreter.Interpreter
	responseCache       *aicache.Cache
	quotaCounter        *quota.Counter
	speechProvider      speech.SpeechProvider
	eventPublisher      *pkgNats.Publisher
	embedPublisher      IPublisherService
	defaultLanguage     string
	log                 logger.ILogger
}

func NewDreamService(
	uowFactory unitofwork.RepositoryFactory,
	subscriptionService ISubscriptionService,
	embeddingService IEmbeddingService,
	interp *interpreter.Interpreter,
	responseCache *aicache.Cache,
	quotaCounter *quota.Counter,
	speechProvider speech.SpeechProvider,
	eventPublisher *pkgNats.Publisher,
	embedPublisher IPublisherService,
	defaultLanguage string,
	log logger.ILogger,
) IDreamService {
	if defaultLanguage == "" {
		defaultLanguage = "ru"
	}
	return &dreamService{
		uowFactory:          uowFactory,
		subscriptionService: subscriptionService,
		embeddingService:    embeddingService,
		interp:              interp,
		responseCache:       responseCache,
		quotaCounter:        quotaCounter,
		speechProvider:      speechProvider,
		eventPublisher:      eventPublisher,
		embedPublisher:      embedPublisher,
		defaultLanguage:     defaultLanguage,
		log:                 log,
	}
}

func (s *dreamService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDreamRequest) (*dto.DreamResponse, error) {
	text := entity.NormalizeDreamText(req.Text)
	if err := entity.ValidateDreamText(text); err != nil {
		return nil, err
	}

	policy, err := s.subscriptionService.EffectivePolicy(ctx, userId)
	if err != nil {
		return nil, err
	}

	quotaStatus := s.quotaCounter.Check(ctx, userId, policy.DailyLimit)
	if !quotaStatus.Allowed {
		return nil, apperror.QuotaExceeded(quotaStatus.Remaining)
	}

	language := req.Language
	if language == "" {
		language = s.userLanguage(ctx, userId)
	}

	result, fromCache, err := s.interpretDream(ctx, userId, text, language)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dreamDate := now
	if req.DreamDate != nil {
		dreamDate = *req.DreamDate
	}

	source := entity.DreamSourceText
	if req.Source == string(entity.DreamSourceVoice) {
		source = entity.DreamSourceVoice
	}

	dream := &entity.Dream{
		Id:        uuid.New(),
		UserId:    userId,
		Text:      text,
		Source:    source,
		Language:  language,
		DreamDate: dreamDate,
		CreatedAt: now,
	}

	interpretation := interpretationFromResult(dream.Id, result, fromCache, now)
	tags := tagsFromResult(dream.Id, result)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	if err := uow.DreamRepository().Create(ctx, dream); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.DreamRepository().SaveInterpretation(ctx, interpretation); err != nil {
		return nil, apperror.Persistence(err)
	}
	if len(tags) > 0 {
		if err := uow.DreamRepository().ReplaceTags(ctx, dream.Id, tags); err != nil {
			return nil, apperror.Persistence(err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.quotaCounter.Increment(ctx, userId, policy.DailyLimit)

	s.publishEvent(ctx, events.NewDreamCreated(dream.Id, userId))
	s.publishEvent(ctx, events.NewDreamInterpreted(dream.Id, userId, result.MainSymbol, fromCache, result.IsFallback))
	s.queueEmbedding(ctx, dream.Id)

	dream.Interpretation = interpretation
	dream.Tags = tags

	res := dreamToResponse(dream)
	if !quotaStatus.Unlimited {
		remaining := quotaStatus.Remaining - 1
		if remaining < 0 {
			remaining = 0
		}
		res.QuotaRemaining = &remaining
	}
	return res, nil
}

func (s *dreamService) Update(ctx context.Context, userId, dreamId uuid.UUID, req *dto.UpdateDreamRequest) (*dto.DreamResponse, error) {
	text := entity.NormalizeDreamText(req.Text)
	if err := entity.ValidateDreamText(text); err != nil {
		return nil, err
	}

	dream, err := s.findOwnedDream(ctx, userId, dreamId)
	if err != nil {
		return nil, err
	}

	language := dream.Language
	if language == "" {
		language = s.userLanguage(ctx, userId)
	}

	// A changed text invalidates the stored interpretation and the vector;
	// both are replaced, the latter by the embedding worker.
	textChanged := text != dream.Text

	var result *interpreter.Result
	fromCache := false
	if textChanged {
		result, fromCache, err = s.interpretDream(ctx, userId, text, language)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	dream.Text = text
	dream.UpdatedAt = &now
	if req.DreamDate != nil {
		dream.DreamDate = *req.DreamDate
	}

	var interpretation *entity.DreamInterpretation
	var tags []entity.DreamTag
	if textChanged {
		interpretation = interpretationFromResult(dream.Id, result, fromCache, now)
		tags = tagsFromResult(dream.Id, result)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	if err := uow.DreamRepository().Update(ctx, dream); err != nil {
		return nil, apperror.Persistence(err)
	}
	if textChanged {
		if err := uow.DreamRepository().SaveInterpretation(ctx, interpretation); err != nil {
			return nil, apperror.Persistence(err)
		}
		if err := uow.DreamRepository().ReplaceTags(ctx, dream.Id, tags); err != nil {
			return nil, apperror.Persistence(err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	if textChanged {
		dream.Interpretation = interpretation
		dream.Tags = tags
		s.publishEvent(ctx, events.NewDreamInterpreted(dream.Id, userId, result.MainSymbol, fromCache, result.IsFallback))
		s.queueEmbedding(ctx, dream.Id)
	}

	return dreamToResponse(dream), nil
}

// interpretDream resolves an interpretation for dream text, trying the
// response cache before the model. Fallbacks are transient; caching one
// would pin the degraded answer for the full TTL.
func (s *dreamService) interpretDream(ctx context.Context, userId uuid.UUID, text, language string) (*interpreter.Result, bool, error) {
	userContext := s.buildUserContext(ctx, userId)

	messages := s.interp.BuildMessages(text, userContext, language)
	prompt := messages[0].Content + "\n" + messages[1].Content
	cacheKey := s.responseCache.Key(prompt, s.interp.Model())

	cached, lookup := s.responseCache.Lookup(ctx, cacheKey)
	if lookup == aicache.Hit {
		start := time.Now()
		result := s.interp.ParseResponse(cached, s.interp.Model())
		result.ProcessingTimeMs = time.Since(start).Milliseconds()
		s.recordCacheHit(ctx, cacheKey)
		return result, true, nil
	}

	result, err := s.interp.Interpret(ctx, text, userContext, language)
	if err != nil {
		return nil, false, apperror.LLMFailure(err)
	}
	if lookup == aicache.Miss && !result.IsFallback {
		if raw, marshalErr := json.Marshal(result); marshalErr == nil {
			s.responseCache.Save(ctx, cacheKey, string(raw))
			s.mirrorCacheRow(ctx, cacheKey, result.Model, string(raw))
		}
	}
	return result, false, nil
}

func (s *dreamService) userLanguage(ctx context.Context, userId uuid.UUID) string {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil || user.Language == "" {
		return s.defaultLanguage
	}
	return user.Language
}

// buildUserContext gathers recent themes and the recording streak. Both are
// prompt enrichment only, so lookup failures degrade to an empty context.
func (s *dreamService) buildUserContext(ctx context.Context, userId uuid.UUID) *interpreter.UserContext {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userContext := &interpreter.UserContext{}

	recent, err := uow.DreamRepository().FindAll(ctx,
		specification.DreamOwnedByUser{UserID: userId},
		specification.NotDeleted{},
		specification.WithInterpretation{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: recentThemeCount},
	)
	if err == nil {
		for _, d := range recent {
			if d.Interpretation != nil && d.Interpretation.MainSymbol != "" {
				userContext.RecentThemes = append(userContext.RecentThemes, d.Interpretation.MainSymbol)
			}
		}
	}

	stats, err := uow.UserStatsRepository().FindByUserId(ctx, userId)
	if err == nil && stats != nil {
		userContext.StreakDays = stats.CurrentStreak
	}

	return userContext
}

func (s *dreamService) recordCacheHit(ctx context.Context, cacheKey string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AIResponseCacheRepository().IncrementHit(ctx, cacheKey); err != nil {
		s.log.Warn("dream", "cache hit bookkeeping failed", map[string]interface{}{
			"cache_key": cacheKey,
			"error":     err.Error(),
		})
	}
}

func (s *dreamService) mirrorCacheRow(ctx context.Context, cacheKey, model, response string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	row := &entity.AIResponseCache{
		Id:        uuid.New(),
		CacheKey:  cacheKey,
		Model:     model,
		Response:  response,
		ExpiresAt: time.Now().Add(s.responseCache.TTL()),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uow.AIResponseCacheRepository().UpsertByKey(ctx, row); err != nil {
		s.log.Warn("dream", "cache mirror write failed", map[string]interface{}{
			"cache_key": cacheKey,
			"error":     err.Error(),
		})
	}
}

func (s *dreamService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("dream", "event publish failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *dreamService) queueEmbedding(ctx context.Context, dreamId uuid.UUID) {
	if s.embedPublisher == nil {
		return
	}
	payload, err := json.Marshal(dto.PublishEmbedDreamMessage{DreamId: dreamId})
	if err != nil {
		return
	}
	if err := s.embedPublisher.Publish(ctx, payload); err != nil {
		s.log.Warn("dream", "embedding job enqueue failed", map[string]interface{}{
			"dream_id": dreamId.String(),
			"error":    err.Error(),
		})
	}
}

func (s *dreamService) List(ctx context.Context, userId uuid.UUID, req *dto.ListDreamsRequest) (*dto.ListDreamsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filters := []specification.Specification{
		specification.DreamOwnedByUser{UserID: userId},
		specification.NotDeleted{},
	}
	if req.From != nil || req.To != nil {
		filters = append(filters, specification.DreamDateBetween{From: req.From, To: req.To})
	}
	if req.Tag != "" {
		filters = append(filters, specification.HasTag{Tag: req.Tag})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.DreamRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(filters,
		specification.WithInterpretation{},
		specification.OrderBy{Field: "dream_date", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	dreams, err := uow.DreamRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	res := &dto.ListDreamsResponse{
		Dreams:   make([]dto.DreamResponse, 0, len(dreams)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, d := range dreams {
		res.Dreams = append(res.Dreams, *dreamToResponse(d))
	}
	return res, nil
}

func (s *dreamService) Show(ctx context.Context, userId, dreamId uuid.UUID) (*dto.DreamResponse, error) {
	dream, err := s.findOwnedDream(ctx, userId, dreamId)
	if err != nil {
		return nil, err
	}
	return dreamToResponse(dream), nil
}

func (s *dreamService) findOwnedDream(ctx context.Context, userId, dreamId uuid.UUID) (*entity.Dream, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	dream, err := uow.DreamRepository().FindOne(ctx,
		specification.ByID{ID: dreamId},
		specification.DreamOwnedByUser{UserID: userId},
		specification.NotDeleted{},
		specification.WithInterpretation{},
	)
	if err != nil {
		return nil, err
	}
	if dream == nil {
		return nil, apperror.NotFound("dream")
	}
	return dream, nil
}

func (s *dreamService) Delete(ctx context.Context, userId, dreamId uuid.UUID) error {
	dream, err := s.findOwnedDream(ctx, userId, dreamId)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DreamRepository().Delete(ctx, dream.Id); err != nil {
		return err
	}
	if err := uow.DreamEmbeddingRepository().DeleteByDreamId(ctx, dream.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewDreamDeleted(dream.Id, userId))
	return nil
}

func (s *dreamService) Transcribe(ctx context.Context, userId uuid.UUID, audio io.Reader, filename, language string) (*dto.TranscribeResponse, error) {
	policy, err := s.subscriptionService.EffectivePolicy(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !policy.Features.VoiceInput {
		return nil, apperror.FeatureGated("voice_input")
	}

	transcription, err := s.speechProvider.Transcribe(ctx, audio, filename, language)
	if err != nil {
		return nil, apperror.Transcription(err)
	}
	return &dto.TranscribeResponse{Text: transcription.Text}, nil
}

func (s *dreamService) Synthesize(ctx context.Context, userId, dreamId uuid.UUID) ([]byte, error) {
	policy, err := s.subscriptionService.EffectivePolicy(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !policy.Features.TTSOutput {
		return nil, apperror.FeatureGated("tts_output")
	}

	dream, err := s.findOwnedDream(ctx, userId, dreamId)
	if err != nil {
		return nil, err
	}
	if dream.Interpretation == nil || dream.Interpretation.Interpretation == "" {
		return nil, apperror.NotFound("interpretation")
	}

	return s.speechProvider.Synthesize(ctx, dream.Interpretation.Interpretation)
}

func (s *dreamService) GetSimilar(ctx context.Context, userId, dreamId uuid.UUID, limit int) ([]*dto.SimilarDreamResponse, error) {
	policy, err := s.subscriptionService.EffectivePolicy(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !policy.Features.SimilarDreams {
		return nil, apperror.FeatureGated("similar_dreams")
	}

	if _, err := s.findOwnedDream(ctx, userId, dreamId); err != nil {
		return nil, err
	}
	return s.embeddingService.FindSimilarDreams(ctx, userId, dreamId, limit)
}

func (s *dreamService) GetContext(ctx context.Context, userId, dreamId uuid.UUID) (*dto.DreamContextResponse, error) {
	policy, err := s.subscriptionService.EffectivePolicy(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !policy.Features.DeepAnalysis {
		return nil, apperror.FeatureGated("deep_analysis")
	}

	if _, err := s.findOwnedDream(ctx, userId, dreamId); err != nil {
		return nil, err
	}
	return s.embeddingService.GetDreamContext(ctx, userId, dreamId)
}

func (s *dreamService) GetQuotaStatus(ctx context.Context, userId uuid.UUID) (*dto.QuotaStatusResponse, error) {
	policy, err := s.subscriptionService.EffectivePolicy(ctx, userId)
	if err != nil {
		return nil, err
	}

	status := s.quotaCounter.Check(ctx, userId, policy.DailyLimit)
	return &dto.QuotaStatusResponse{
		Plan:       string(policy.Type),
		DailyLimit: status.Limit,
		Used:       status.Used,
		Remaining:  status.Remaining,
		Unlimited:  status.Unlimited,
	}, nil
}

func (s *dreamService) Export(ctx context.Context, userId uuid.UUID) (*dto.ExportDreamsResponse, error) {
	policy, err := s.subscriptionService.EffectivePolicy(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !policy.Features.ExportData {
		return nil, apperror.FeatureGated("export_data")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	dreams, err := uow.DreamRepository().FindAll(ctx,
		specification.DreamOwnedByUser{UserID: userId},
		specification.NotDeleted{},
		specification.WithInterpretation{},
		specification.OrderBy{Field: "dream_date", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ExportDreamsResponse{
		ExportedAt: time.Now(),
		Count:      len(dreams),
		Dreams:     make([]dto.ExportDreamItem, 0, len(dreams)),
	}
	for _, d := range dreams {
		res.Dreams = append(res.Dreams, dto.ExportDreamItem{
			Text:           d.Text,
			DreamDate:      d.DreamDate,
			Tags:           tagNames(d.Tags),
			Interpretation: interpretationToResponse(d.Interpretation),
		})
	}
	return res, nil
}

func interpretationFromResult(dreamId uuid.UUID, result *interpreter.Result, fromCache bool, now time.Time) *entity.DreamInterpretation {
	emotions := make([]entity.DreamEmotion, 0, len(result.Emotions))
	for _, e := range result.Emotions {
		emotions = append(emotions, entity.DreamEmotion{
			Name:      e.Name,
			Intensity: e.Intensity,
			Meaning:   e.Meaning,
		})
	}
	return &entity.DreamInterpretation{
		Id:              uuid.New(),
		DreamId:         dreamId,
		MainSymbol:      result.MainSymbol,
		MainSymbolEmoji: result.MainSymbolEmoji,
		Interpretation:  result.Interpretation,
		Emotions:        emotions,
		Advice:          result.Advice,
		Model:            result.Model,
		PromptVersion:    result.PromptVersion,
		IsFallback:       result.IsFallback,
		FromCache:        fromCache,
		ProcessingTimeMs: result.ProcessingTimeMs,
		CreatedAt:        now,
	}
}

func tagsFromResult(dreamId uuid.UUID, result *interpreter.Result) []entity.DreamTag {
	tags := make([]entity.DreamTag, 0, len(result.Tags))
	for _, name := range result.Tags {
		if name == "" {
			continue
		}
		tags = append(tags, entity.DreamTag{
			Id:      uuid.New(),
			DreamId: dreamId,
			Name:    name,
		})
	}
	return tags
}

func tagNames(tags []entity.DreamTag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func interpretationToResponse(in *entity.DreamInterpretation) *dto.InterpretationResponse {
	if in == nil {
		return nil
	}
	emotions := make([]dto.DreamEmotionResponse, 0, len(in.Emotions))
	for _, e := range in.Emotions {
		emotions = append(emotions, dto.DreamEmotionResponse{
			Name:      e.Name,
			Intensity: e.Intensity,
			Meaning:   e.Meaning,
		})
	}
	return &dto.InterpretationResponse{
		MainSymbol:       in.MainSymbol,
		MainSymbolEmoji:  in.MainSymbolEmoji,
		Interpretation:   in.Interpretation,
		Emotions:         emotions,
		Advice:           in.Advice,
		IsFallback:       in.IsFallback,
		FromCache:        in.FromCache,
		ProcessingTimeMs: in.ProcessingTimeMs,
	}
}

func dreamToResponse(d *entity.Dream) *dto.DreamResponse {
	return &dto.DreamResponse{
		Id:             d.Id,
		Text:           d.Text,
		Source:         string(d.Source),
		Language:       d.Language,
		DreamDate:      d.DreamDate,
		Tags:           tagNames(d.Tags),
		Interpretation: interpretationToResponse(d.Interpretation),
		CreatedAt:      d.CreatedAt,
	}
}
