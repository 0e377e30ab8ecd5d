package contract

import (
	"context"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.SubscriptionNotification) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionNotification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
}
