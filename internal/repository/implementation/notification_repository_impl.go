package implementation

import (
	"context"
	"time"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/mapper"
	"allnimall-store-be/internal/model"
	"allnimall-store-be/internal/repository/contract"
	"allnimall-store-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *NotificationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entity.SubscriptionNotification) error {
	m := r.mapper.NotificationToModel(notification)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notification = *r.mapper.NotificationToEntity(m)
	return nil
}

func (r *NotificationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionNotification, error) {
	var models []*model.SubscriptionNotification
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SubscriptionNotification, len(models))
	for i, m := range models {
		entities[i] = r.mapper.NotificationToEntity(m)
	}
	return entities, nil
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.SubscriptionNotification{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error
}
