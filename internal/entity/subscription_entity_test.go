package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPolicyFor_PlanTable(t *testing.T) {
	free := PolicyFor(SubscriptionTypeFree)
	assert.Equal(t, 1, free.DailyLimit)
	assert.True(t, free.Features.VoiceInput)
	assert.False(t, free.Features.TTSOutput)
	assert.False(t, free.Features.ExportData)

	trial := PolicyFor(SubscriptionTypeTrial)
	assert.Equal(t, 3, trial.DailyLimit)
	assert.True(t, trial.Features.VoiceInput)
	assert.True(t, trial.Features.TTSOutput)
	assert.False(t, trial.Features.DeepAnalysis)
	assert.True(t, trial.Features.SimilarDreams)
	assert.False(t, trial.Features.ExportData)
	assert.False(t, trial.Features.PrioritySupport)

	pro := PolicyFor(SubscriptionTypePro)
	assert.Equal(t, UnlimitedDailyLimit, pro.DailyLimit)
	assert.True(t, IsUnlimitedLimit(pro.DailyLimit))
	assert.True(t, pro.Features.VoiceInput)
	assert.True(t, pro.Features.TTSOutput)
	assert.True(t, pro.Features.DeepAnalysis)
	assert.True(t, pro.Features.SimilarDreams)
	assert.True(t, pro.Features.ExportData)
	assert.False(t, pro.Features.PrioritySupport)

	yearly := PolicyFor(SubscriptionTypeYearly)
	assert.Equal(t, UnlimitedDailyLimit, yearly.DailyLimit)
	assert.True(t, yearly.Features.DeepAnalysis)
	assert.True(t, yearly.Features.ExportData)
	assert.True(t, yearly.Features.PrioritySupport)
}

func TestPolicyFor_UnknownPlanFallsBackToFree(t *testing.T) {
	p := PolicyFor(SubscriptionType("enterprise"))
	assert.Equal(t, SubscriptionTypeFree, p.Type)
	assert.Equal(t, 1, p.DailyLimit)
}

func TestSubscription_IsActive(t *testing.T) {
	now := time.Now()
	sub := &Subscription{
		Id:               uuid.New(),
		Status:           SubscriptionStatusActive,
		CurrentPeriodEnd: now.Add(time.Hour),
	}
	assert.True(t, sub.IsActive(now))

	// Cancelling degrades to free immediately, even inside the paid period.
	sub.Status = SubscriptionStatusCancelled
	assert.False(t, sub.IsActive(now))

	sub.Status = SubscriptionStatusExpired
	assert.False(t, sub.IsActive(now))
}

func TestSubscription_EffectivePlan(t *testing.T) {
	now := time.Now()

	var none *Subscription
	assert.Equal(t, SubscriptionTypeFree, none.EffectivePlan(now))

	sub := &Subscription{
		Type:             SubscriptionTypePro,
		Status:           SubscriptionStatusActive,
		CurrentPeriodEnd: now.Add(time.Hour),
	}
	assert.Equal(t, SubscriptionTypePro, sub.EffectivePlan(now))

	// Lapsed pro degrades to free.
	assert.Equal(t, SubscriptionTypeFree, sub.EffectivePlan(now.Add(2*time.Hour)))
}
