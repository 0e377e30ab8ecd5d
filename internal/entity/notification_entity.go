// FILE: internal/entity/notification_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type WarningType string
type WarningSeverity string

const (
	WarningTypeThreshold    WarningType = "threshold"
	WarningTypeLimitReached WarningType = "limit_reached"
	WarningTypeOverage      WarningType = "overage"

	WarningSeverityLow    WarningSeverity = "low"
	WarningSeverityMedium WarningSeverity = "medium"
	WarningSeverityHigh   WarningSeverity = "high"
)

// SubscriptionNotification is a persisted usage warning shown in-app.
type SubscriptionNotification struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	NotificationType string
	Title            string
	Message          string
	Metadata         map[string]interface{}
	IsRead           bool
	ReadAt           *time.Time
	CreatedAt        time.Time
}
