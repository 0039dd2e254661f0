package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Dream struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Text      string         `gorm:"type:text;not null"`
	Source    string         `gorm:"type:varchar(20);not null;default:'text'"`
	Language  string         `gorm:"type:varchar(10);not null;default:'ru'"`
	DreamDate time.Time      `gorm:"not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Interpretation *DreamInterpretation `gorm:"foreignKey:DreamId"`
	Tags           []DreamTag           `gorm:"foreignKey:DreamId"`
}

func (Dream) TableName() string {
	return "dreams"
}

type DreamInterpretation struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DreamId          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	MainSymbol       string         `gorm:"type:varchar(255);not null"`
	MainSymbolEmoji  string         `gorm:"type:varchar(16);not null"`
	Interpretation   string         `gorm:"type:text;not null"`
	Emotions         datatypes.JSON `gorm:"type:jsonb"`
	Advice           string         `gorm:"type:text"`
	Model            string         `gorm:"type:varchar(100);not null"`
	PromptVersion    string         `gorm:"type:varchar(20);not null"`
	IsFallback       bool           `gorm:"default:false"`
	FromCache        bool           `gorm:"default:false"`
	ProcessingTimeMs int64          `gorm:"not null;default:0"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
}

func (DreamInterpretation) TableName() string {
	return "dream_interpretations"
}

type DreamTag struct {
	Id      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DreamId uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(100);not null"`
}

func (DreamTag) TableName() string {
	return "dream_tags"
}
