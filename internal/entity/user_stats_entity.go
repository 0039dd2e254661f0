package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserStats struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	TotalDreams         int
	CurrentStreak       int
	LongestStreak       int
	LastDreamDate       *time.Time
	FavoriteSymbol      string
	FavoriteSymbolCount int
	UpdatedAt           time.Time
}

// RecordDream updates the counters for a dream recorded at the given time.
// Streaks count consecutive calendar days: a second dream on the same day
// keeps the streak, the next day extends it, and any gap resets it to 1.
func (s *UserStats) RecordDream(at time.Time) {
	s.TotalDreams++

	day := at.Truncate(24 * time.Hour)
	switch {
	case s.LastDreamDate == nil:
		s.CurrentStreak = 1
	case s.LastDreamDate.Truncate(24 * time.Hour).Equal(day):
		// same day, streak unchanged
	case s.LastDreamDate.Truncate(24 * time.Hour).Equal(day.AddDate(0, 0, -1)):
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}

	s.LastDreamDate = &day
	s.UpdatedAt = at
}

// RecordSymbol updates the favorite symbol. The caller supplies how often the
// symbol now occurs across the user's interpretations; ties go to the newest
// symbol.
func (s *UserStats) RecordSymbol(symbol string, count int) {
	if symbol == "" || count < s.FavoriteSymbolCount {
		return
	}
	s.FavoriteSymbol = symbol
	s.FavoriteSymbolCount = count
}
