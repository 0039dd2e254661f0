package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DreamOwnedByUser struct {
	UserID uuid.UUID
}

func (s DreamOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("dreams.user_id = ?", s.UserID)
}

type DreamDateBetween struct {
	From *time.Time
	To   *time.Time
}

func (s DreamDateBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where("dream_date >= ?", *s.From)
	}
	if s.To != nil {
		db = db.Where("dream_date <= ?", *s.To)
	}
	return db
}

type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN dream_tags ON dream_tags.dream_id = dreams.id").
		Where("dream_tags.name = ?", s.Tag)
}

type WithInterpretation struct{}

func (s WithInterpretation) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Interpretation").Preload("Tags")
}
