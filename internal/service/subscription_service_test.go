package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/entity"
)

func TestSubscriptionService_ListPlans(t *testing.T) {
	svc := NewSubscriptionService(&fakeUowFactory{}, nil)

	plans := svc.ListPlans()
	require.Len(t, plans, 4)

	byType := make(map[string]dto.PlanResponse, len(plans))
	for _, p := range plans {
		byType[p.Type] = p
	}

	assert.Equal(t, 0, byType["free"].PriceRUB)
	assert.Equal(t, 1, byType["free"].DailyLimit)
	assert.True(t, byType["free"].Features.VoiceInput)

	assert.Equal(t, 0, byType["trial"].PriceRUB)
	assert.Equal(t, 7, byType["trial"].PeriodDays)
	assert.Equal(t, 3, byType["trial"].DailyLimit)

	assert.Equal(t, 349, byType["pro"].PriceRUB)
	assert.Equal(t, 30, byType["pro"].PeriodDays)
	assert.True(t, byType["pro"].Unlimited)
	assert.False(t, byType["pro"].Features.PrioritySupport)

	assert.Equal(t, 2990, byType["yearly"].PriceRUB)
	assert.Equal(t, 365, byType["yearly"].PeriodDays)
	assert.True(t, byType["yearly"].Features.PrioritySupport)
}

func TestSubscriptionService_SweepExpiredInvalidatesPolicy(t *testing.T) {
	userId := uuid.New()
	now := time.Now()

	sub := &entity.Subscription{
		Id:                 uuid.New(),
		UserId:             userId,
		Type:               entity.SubscriptionTypePro,
		Status:             entity.SubscriptionStatusActive,
		CurrentPeriodStart: now.AddDate(0, -1, 0),
		CurrentPeriodEnd:   now.Add(time.Hour),
	}
	subs := &fakeSubscriptionRepo{active: sub}
	uow := &fakeUnitOfWork{subs: subs}

	svc := NewSubscriptionService(&fakeUowFactory{uow: uow}, nil)

	policy, err := svc.EffectivePolicy(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionTypePro, policy.Type)

	// The period lapses; the sweep must expire the row and drop the memoized
	// pro policy so the next lookup sees free.
	sub.Status = entity.SubscriptionStatusExpired
	subs.active = nil
	subs.lapsed = []*entity.Subscription{sub}

	count, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	policy, err = svc.EffectivePolicy(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionTypeFree, policy.Type)
}

func TestSubscriptionService_SweepExpiredEmpty(t *testing.T) {
	uow := &fakeUnitOfWork{subs: &fakeSubscriptionRepo{}}
	svc := NewSubscriptionService(&fakeUowFactory{uow: uow}, nil)

	count, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
