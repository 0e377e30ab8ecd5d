package contract

import (
	"context"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.UserSubscription) error
	Update(ctx context.Context, subscription *entity.UserSubscription) error
	Delete(ctx context.Context, id uuid.UUID) error // soft delete
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error)

	// Admin / dashboard stats
	CountActiveSubscribers(ctx context.Context) (int, error)
}
