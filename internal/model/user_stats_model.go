package model

import (
	"time"

	"github.com/google/uuid"
)

type UserStats struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TotalDreams         int       `gorm:"default:0"`
	CurrentStreak       int       `gorm:"default:0"`
	LongestStreak       int       `gorm:"default:0"`
	LastDreamDate       *time.Time
	FavoriteSymbol      string    `gorm:"type:varchar(255)"`
	FavoriteSymbolCount int       `gorm:"default:0"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
