package mapper

import (
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/model"
)

type AIResponseCacheMapper struct{}

func NewAIResponseCacheMapper() *AIResponseCacheMapper {
	return &AIResponseCacheMapper{}
}

func (m *AIResponseCacheMapper) ToEntity(c *model.AIResponseCache) *entity.AIResponseCache {
	if c == nil {
		return nil
	}
	return &entity.AIResponseCache{
		Id:        c.Id,
		CacheKey:  c.CacheKey,
		Model:     c.Model,
		Response:  c.Response,
		HitCount:  c.HitCount,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *AIResponseCacheMapper) ToModel(c *entity.AIResponseCache) *model.AIResponseCache {
	if c == nil {
		return nil
	}
	return &model.AIResponseCache{
		Id:        c.Id,
		CacheKey:  c.CacheKey,
		Model:     c.Model,
		Response:  c.Response,
		HitCount:  c.HitCount,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
