package contract

import (
	"context"

	"github.com/google/uuid"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/repository/specification"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	Update(ctx context.Context, sub *entity.Subscription) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)

	// FindActiveByUserId returns the newest subscription whose period has not
	// ended, or nil when the user has none.
	FindActiveByUserId(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)
	FindByOrderId(ctx context.Context, orderId string) (*entity.Subscription, error)
	HasEverTrialed(ctx context.Context, userId uuid.UUID) (bool, error)

	// ExpireLapsed marks every subscription whose paid period has ended as
	// expired and returns the affected rows.
	ExpireLapsed(ctx context.Context) ([]*entity.Subscription, error)
}
