package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionType string
type SubscriptionStatus string
type PaymentStatus string

const (
	SubscriptionTypeFree   SubscriptionType = "free"
	SubscriptionTypeTrial  SubscriptionType = "trial"
	SubscriptionTypePro    SubscriptionType = "pro"
	SubscriptionTypeYearly SubscriptionType = "yearly"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// UnlimitedDailyLimit is the sentinel carried by pro and yearly plans. Quota
// enforcement skips Redis entirely when a plan carries this value.
const UnlimitedDailyLimit = 999999

// IsUnlimitedLimit reports whether a daily limit is the unlimited sentinel.
func IsUnlimitedLimit(limit int) bool {
	return limit >= UnlimitedDailyLimit
}

const (
	ProMonthlyPriceRUB = 349
	ProYearlyPriceRUB  = 2990
	TrialDurationDays  = 7
)

type FeatureFlags struct {
	VoiceInput      bool
	TTSOutput       bool
	DeepAnalysis    bool
	SimilarDreams   bool
	ExportData      bool
	PrioritySupport bool
}

// SubscriptionPolicy is the static per-plan entitlement table. It is not
// stored in the database; the plan type on the user's subscription row is the
// only persisted state.
type SubscriptionPolicy struct {
	Type       SubscriptionType
	DailyLimit int
	Features   FeatureFlags
}

var subscriptionPolicies = map[SubscriptionType]SubscriptionPolicy{
	SubscriptionTypeFree: {
		Type:       SubscriptionTypeFree,
		DailyLimit: 1,
		Features:   FeatureFlags{VoiceInput: true},
	},
	SubscriptionTypeTrial: {
		Type:       SubscriptionTypeTrial,
		DailyLimit: 3,
		Features: FeatureFlags{
			VoiceInput:    true,
			TTSOutput:     true,
			SimilarDreams: true,
		},
	},
	SubscriptionTypePro: {
		Type:       SubscriptionTypePro,
		DailyLimit: UnlimitedDailyLimit,
		Features: FeatureFlags{
			VoiceInput:    true,
			TTSOutput:     true,
			DeepAnalysis:  true,
			SimilarDreams: true,
			ExportData:    true,
		},
	},
	SubscriptionTypeYearly: {
		Type:       SubscriptionTypeYearly,
		DailyLimit: UnlimitedDailyLimit,
		Features: FeatureFlags{
			VoiceInput:      true,
			TTSOutput:       true,
			DeepAnalysis:    true,
			SimilarDreams:   true,
			ExportData:      true,
			PrioritySupport: true,
		},
	},
}

// PolicyFor resolves the entitlement policy for a plan type. Unknown or empty
// plan types degrade to the free policy rather than failing.
func PolicyFor(planType SubscriptionType) SubscriptionPolicy {
	if p, ok := subscriptionPolicies[planType]; ok {
		return p
	}
	return subscriptionPolicies[SubscriptionTypeFree]
}

type Subscription struct {
	Id                    uuid.UUID
	UserId                uuid.UUID
	Type                  SubscriptionType
	Status                SubscriptionStatus
	PaymentStatus         PaymentStatus
	CurrentPeriodStart    time.Time
	CurrentPeriodEnd      time.Time
	MidtransOrderId       *string
	MidtransTransactionId *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsActive reports whether the subscription grants its plan's entitlements
// right now. Only an active status counts; cancelled and expired rows degrade
// to the free policy immediately.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return now.Before(s.CurrentPeriodEnd)
}

// EffectivePlan resolves the plan type the user is entitled to right now,
// falling back to free when the subscription has lapsed.
func (s *Subscription) EffectivePlan(now time.Time) SubscriptionType {
	if s == nil || !s.IsActive(now) {
		return SubscriptionTypeFree
	}
	return s.Type
}
