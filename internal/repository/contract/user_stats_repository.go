package contract

import (
	"context"

	"github.com/google/uuid"

	"dream-journal-be/internal/entity"
)

type UserStatsRepository interface {
	// FindByUserId returns nil when the user has no stats row yet.
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserStats, error)
	Save(ctx context.Context, stats *entity.UserStats) error
}
