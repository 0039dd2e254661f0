package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDreamRequest struct {
	Text      string     `json:"text" validate:"required"`
	Source    string     `json:"source" validate:"omitempty,oneof=text voice"`
	Language  string     `json:"language" validate:"omitempty,oneof=ru en"`
	DreamDate *time.Time `json:"dream_date"`
}

type UpdateDreamRequest struct {
	Text      string     `json:"text" validate:"required"`
	DreamDate *time.Time `json:"dream_date"`
}

type DreamEmotionResponse struct {
	Name      string `json:"name"`
	Intensity string `json:"intensity"`
	Meaning   string `json:"meaning"`
}

type InterpretationResponse struct {
	MainSymbol       string                 `json:"main_symbol"`
	MainSymbolEmoji  string                 `json:"main_symbol_emoji"`
	Interpretation   string                 `json:"interpretation"`
	Emotions         []DreamEmotionResponse `json:"emotions"`
	Advice           string                 `json:"advice"`
	IsFallback       bool                   `json:"is_fallback"`
	FromCache        bool                   `json:"from_cache"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
}

type DreamResponse struct {
	Id             uuid.UUID               `json:"id"`
	Text           string                  `json:"text"`
	Source         string                  `json:"source"`
	Language       string                  `json:"language"`
	DreamDate      time.Time               `json:"dream_date"`
	Tags           []string                `json:"tags"`
	Interpretation *InterpretationResponse `json:"interpretation,omitempty"`
	QuotaRemaining *int                    `json:"quota_remaining,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

type ListDreamsRequest struct {
	Page     int        `query:"page"`
	PageSize int        `query:"page_size"`
	From     *time.Time `query:"from"`
	To       *time.Time `query:"to"`
	Tag      string     `query:"tag"`
}

type ListDreamsResponse struct {
	Dreams   []DreamResponse `json:"dreams"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type SimilarDreamResponse struct {
	Id         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	MainSymbol string    `json:"main_symbol,omitempty"`
	DreamDate  time.Time `json:"dream_date"`
	Similarity float64   `json:"similarity"`
}

type DreamContextResponse struct {
	SimilarCount      int                `json:"similar_count"`
	CommonSymbols     []string           `json:"common_symbols"`
	RecurringEmotions []string           `json:"recurring_emotions"`
	AverageSimilarity float64            `json:"average_similarity"`
	Similar           []SimilarDreamResponse `json:"similar,omitempty"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

type QuotaStatusResponse struct {
	Plan       string `json:"plan"`
	DailyLimit int    `json:"daily_limit"`
	Used       int    `json:"used"`
	Remaining  int    `json:"remaining"`
	Unlimited  bool   `json:"unlimited"`
}

type UserStatsResponse struct {
	TotalDreams         int        `json:"total_dreams"`
	CurrentStreak       int        `json:"current_streak"`
	LongestStreak       int        `json:"longest_streak"`
	LastDreamDate       *time.Time `json:"last_dream_date,omitempty"`
	FavoriteSymbol      string     `json:"favorite_symbol,omitempty"`
	FavoriteSymbolCount int        `json:"favorite_symbol_count"`
}

type ExportDreamItem struct {
	Text           string                  `json:"text"`
	DreamDate      time.Time               `json:"dream_date"`
	Tags           []string                `json:"tags"`
	Interpretation *InterpretationResponse `json:"interpretation,omitempty"`
}

// PublishEmbedDreamMessage is the payload queued for the embedding worker.
type PublishEmbedDreamMessage struct {
	DreamId uuid.UUID `json:"dream_id"`
}

type ExportDreamsResponse struct {
	ExportedAt time.Time         `json:"exported_at"`
	Count      int               `json:"count"`
	Dreams     []ExportDreamItem `json:"dreams"`
}
