package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubscriptionNotification stores usage warnings surfaced in-app.
type SubscriptionNotification struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index:idx_sub_notifications_user_unread,priority:1"`
	NotificationType string         `gorm:"type:varchar(50);not null;index"`
	Title            string         `gorm:"type:varchar(200);not null"`
	Message          string         `gorm:"type:text;not null"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb"`
	IsRead           bool           `gorm:"default:false;index:idx_sub_notifications_user_unread,priority:2"`
	ReadAt           *time.Time     ``
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
}

func (SubscriptionNotification) TableName() string {
	return "subscription_notifications"
}
