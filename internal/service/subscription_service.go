package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/pkg/apperror"
	"dream-journal-be/internal/repository/unitofwork"
	"dream-journal-be/pkg/events"
	pkgNats "dream-journal-be/pkg/nats"
)

type ISubscriptionService interface {
	GetStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	// ListPlans returns the purchasable plan catalog with prices.
	ListPlans() []dto.PlanResponse
	// EffectivePolicy resolves the entitlement policy the user holds right now.
	// Results are memoized briefly since every dream submission consults it.
	EffectivePolicy(ctx context.Context, userId uuid.UUID) (entity.SubscriptionPolicy, error)
	StartTrial(ctx context.Context, userId uuid.UUID) (*dto.StartTrialResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID) error
	// SweepExpired marks lapsed subscriptions expired and notifies their
	// owners. Run periodically in the background.
	SweepExpired(ctx context.Context) (int, error)
	// InvalidatePolicy drops the memoized policy, called after any plan change.
	InvalidatePolicy(userId uuid.UUID)
}

type subscriptionService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	policyCache    *gocache.Cache
}

func NewSubscriptionService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pkgNats.Publisher) ISubscriptionService {
	return &subscriptionService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		policyCache:    gocache.New(time.Minute, 5*time.Minute),
	}
}

func (s *subscriptionService) findActive(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SubscriptionRepository().FindActiveByUserId(ctx, userId)
}

func (s *subscriptionService) EffectivePolicy(ctx context.Context, userId uuid.UUID) (entity.SubscriptionPolicy, error) {
	if cached, ok := s.policyCache.Get(userId.String()); ok {
		return cached.(entity.SubscriptionPolicy), nil
	}

	sub, err := s.findActive(ctx, userId)
	if err != nil {
		return entity.SubscriptionPolicy{}, err
	}

	plan := sub.EffectivePlan(time.Now())
	policy := entity.PolicyFor(plan)
	s.policyCache.SetDefault(userId.String(), policy)
	return policy, nil
}

func (s *subscriptionService) InvalidatePolicy(userId uuid.UUID) {
	s.policyCache.Delete(userId.String())
}

func (s *subscriptionService) ListPlans() []dto.PlanResponse {
	plans := []struct {
		planType entity.SubscriptionType
		price    int
		days     int
	}{
		{entity.SubscriptionTypeFree, 0, 0},
		{entity.SubscriptionTypeTrial, 0, entity.TrialDurationDays},
		{entity.SubscriptionTypePro, entity.ProMonthlyPriceRUB, 30},
		{entity.SubscriptionTypeYearly, entity.ProYearlyPriceRUB, 365},
	}

	res := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		policy := entity.PolicyFor(p.planType)
		res = append(res, dto.PlanResponse{
			Type:       string(p.planType),
			PriceRUB:   p.price,
			PeriodDays: p.days,
			DailyLimit: policy.DailyLimit,
			Unlimited:  entity.IsUnlimitedLimit(policy.DailyLimit),
			Features:   featuresToDTO(policy.Features),
		})
	}
	return res
}

func (s *subscriptionService) GetStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	sub, err := s.findActive(ctx, userId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	plan := sub.EffectivePlan(now)
	policy := entity.PolicyFor(plan)

	res := &dto.SubscriptionStatusResponse{
		Plan:       string(plan),
		Status:     "none",
		DailyLimit: policy.DailyLimit,
		Unlimited:  entity.IsUnlimitedLimit(policy.DailyLimit),
		Features:   featuresToDTO(policy.Features),
	}

	if sub != nil && sub.IsActive(now) {
		res.SubscriptionId = &sub.Id
		res.Status = string(sub.Status)
		periodEnd := sub.CurrentPeriodEnd
		res.CurrentPeriodEnd = &periodEnd
	}

	return res, nil
}

func (s *subscriptionService) StartTrial(ctx context.Context, userId uuid.UUID) (*dto.StartTrialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	trialed, err := uow.SubscriptionRepository().HasEverTrialed(ctx, userId)
	if err != nil {
		return nil, err
	}
	if trialed {
		return nil, apperror.Validation("plan", "trial already used")
	}

	active, err := uow.SubscriptionRepository().FindActiveByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if active != nil && active.IsActive(time.Now()) {
		return nil, apperror.Validation("plan", "an active subscription already exists")
	}

	now := time.Now()
	sub := &entity.Subscription{
		Id:                 uuid.New(),
		UserId:             userId,
		Type:               entity.SubscriptionTypeTrial,
		Status:             entity.SubscriptionStatusActive,
		PaymentStatus:      entity.PaymentStatusPaid,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, entity.TrialDurationDays),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	s.InvalidatePolicy(userId)
	s.publishActivated(ctx, sub)

	return &dto.StartTrialResponse{
		Plan:             string(sub.Type),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindActiveByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if sub == nil || !sub.IsActive(time.Now()) {
		return apperror.NotFound("active subscription")
	}

	sub.Status = entity.SubscriptionStatusCancelled
	sub.UpdatedAt = time.Now()
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	s.InvalidatePolicy(userId)
	return nil
}

func (s *subscriptionService) SweepExpired(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	expired, err := uow.SubscriptionRepository().ExpireLapsed(ctx)
	if err != nil {
		return 0, err
	}

	for _, sub := range expired {
		s.InvalidatePolicy(sub.UserId)
		if s.eventPublisher != nil {
			evt := events.NewSubscriptionExpired(sub.UserId, string(sub.Type))
			_ = s.eventPublisher.Publish(ctx, evt)
		}
	}
	return len(expired), nil
}

func (s *subscriptionService) publishActivated(ctx context.Context, sub *entity.Subscription) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewSubscriptionActivated(sub.UserId, string(sub.Type), sub.CurrentPeriodEnd)
	_ = s.eventPublisher.Publish(ctx, evt)
}

func featuresToDTO(f entity.FeatureFlags) dto.SubscriptionFeatures {
	return dto.SubscriptionFeatures{
		VoiceInput:      f.VoiceInput,
		TTSOutput:       f.TTSOutput,
		DeepAnalysis:    f.DeepAnalysis,
		SimilarDreams:   f.SimilarDreams,
		ExportData:      f.ExportData,
		PrioritySupport: f.PrioritySupport,
	}
}
