package mapper

import (
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/model"
)

type UserStatsMapper struct{}

func NewUserStatsMapper() *UserStatsMapper {
	return &UserStatsMapper{}
}

func (m *UserStatsMapper) ToEntity(s *model.UserStats) *entity.UserStats {
	if s == nil {
		return nil
	}
	return &entity.UserStats{
		Id:                  s.Id,
		UserId:              s.UserId,
		TotalDreams:         s.TotalDreams,
		CurrentStreak:       s.CurrentStreak,
		LongestStreak:       s.LongestStreak,
		LastDreamDate:       s.LastDreamDate,
		FavoriteSymbol:      s.FavoriteSymbol,
		FavoriteSymbolCount: s.FavoriteSymbolCount,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (m *UserStatsMapper) ToModel(s *entity.UserStats) *model.UserStats {
	if s == nil {
		return nil
	}
	return &model.UserStats{
		Id:                  s.Id,
		UserId:              s.UserId,
		TotalDreams:         s.TotalDreams,
		CurrentStreak:       s.CurrentStreak,
		LongestStreak:       s.LongestStreak,
		LastDreamDate:       s.LastDreamDate,
		FavoriteSymbol:      s.FavoriteSymbol,
		FavoriteSymbolCount: s.FavoriteSymbolCount,
		UpdatedAt:           s.UpdatedAt,
	}
}
