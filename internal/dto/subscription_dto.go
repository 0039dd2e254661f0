package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionFeatures struct {
	VoiceInput      bool `json:"voice_input"`
	TTSOutput       bool `json:"tts_output"`
	DeepAnalysis    bool `json:"deep_analysis"`
	SimilarDreams   bool `json:"similar_dreams"`
	ExportData      bool `json:"export_data"`
	PrioritySupport bool `json:"priority_support"`
}

type SubscriptionStatusResponse struct {
	SubscriptionId   *uuid.UUID           `json:"subscription_id,omitempty"`
	Plan             string               `json:"plan"`
	Status           string               `json:"status"`
	CurrentPeriodEnd *time.Time           `json:"current_period_end,omitempty"`
	DailyLimit       int                  `json:"daily_limit"`
	Unlimited        bool                 `json:"unlimited"`
	Features         SubscriptionFeatures `json:"features"`
}

type PlanResponse struct {
	Type       string               `json:"type"`
	PriceRUB   int                  `json:"price_rub"`
	PeriodDays int                  `json:"period_days,omitempty"`
	DailyLimit int                  `json:"daily_limit"`
	Unlimited  bool                 `json:"unlimited"`
	Features   SubscriptionFeatures `json:"features"`
}

type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=pro yearly"`
}

type CheckoutResponse struct {
	OrderId     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	Token       string `json:"token"`
}

type StartTrialResponse struct {
	Plan             string    `json:"plan"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}

type MidtransWebhookRequest struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionId     string `json:"transaction_id"`
}
