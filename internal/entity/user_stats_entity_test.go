package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", s)
	return t
}

func TestRecordDream_FirstDreamStartsStreak(t *testing.T) {
	stats := &UserStats{}
	stats.RecordDream(day("2026-08-28 09:30"))

	assert.Equal(t, 1, stats.TotalDreams)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
	assert.NotNil(t, stats.LastDreamDate)
}

func TestRecordDream_SameDayKeepsStreak(t *testing.T) {
	stats := &UserStats{}
	stats.RecordDream(day("2026-08-28 09:30"))
	stats.RecordDream(day("2026-08-28 22:10"))

	assert.Equal(t, 2, stats.TotalDreams)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestRecordDream_ConsecutiveDaysExtendStreak(t *testing.T) {
	stats := &UserStats{}
	stats.RecordDream(day("2026-08-26 08:00"))
	stats.RecordDream(day("2026-08-27 23:59"))
	stats.RecordDream(day("2026-08-28 00:01"))

	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
}

func TestRecordDream_GapResetsStreakButKeepsLongest(t *testing.T) {
	stats := &UserStats{}
	stats.RecordDream(day("2026-08-20 08:00"))
	stats.RecordDream(day("2026-08-21 08:00"))
	stats.RecordDream(day("2026-08-22 08:00"))
	stats.RecordDream(day("2026-08-25 08:00"))

	assert.Equal(t, 4, stats.TotalDreams)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
}

func TestRecordSymbol_HigherCountTakesOver(t *testing.T) {
	stats := &UserStats{FavoriteSymbol: "Лес", FavoriteSymbolCount: 2}
	stats.RecordSymbol("Вода", 3)

	assert.Equal(t, "Вода", stats.FavoriteSymbol)
	assert.Equal(t, 3, stats.FavoriteSymbolCount)
}

func TestRecordSymbol_LowerCountIsIgnored(t *testing.T) {
	stats := &UserStats{FavoriteSymbol: "Вода", FavoriteSymbolCount: 5}
	stats.RecordSymbol("Полет", 1)

	assert.Equal(t, "Вода", stats.FavoriteSymbol)
	assert.Equal(t, 5, stats.FavoriteSymbolCount)
}

func TestRecordSymbol_TieGoesToNewest(t *testing.T) {
	stats := &UserStats{FavoriteSymbol: "Вода", FavoriteSymbolCount: 3}
	stats.RecordSymbol("Полет", 3)

	assert.Equal(t, "Полет", stats.FavoriteSymbol)
}

func TestRecordSymbol_EmptySymbolIsIgnored(t *testing.T) {
	stats := &UserStats{FavoriteSymbol: "Вода", FavoriteSymbolCount: 3}
	stats.RecordSymbol("", 10)

	assert.Equal(t, "Вода", stats.FavoriteSymbol)
	assert.Equal(t, 3, stats.FavoriteSymbolCount)
}
