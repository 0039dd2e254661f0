package model

import (
	"time"

	"github.com/google/uuid"
)

type AIResponseCache struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CacheKey  string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Model     string    `gorm:"type:varchar(100);not null"`
	Response  string    `gorm:"type:text;not null"`
	HitCount  int       `gorm:"default:0"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AIResponseCache) TableName() string {
	return "ai_response_cache"
}
