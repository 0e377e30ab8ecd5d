package dto

import (
	"time"

	"github.com/google/uuid"
)

// Warning thresholds as fractions of the usage limit.
const (
	WarningThresholdLow    = 0.7
	WarningThresholdMedium = 0.85
	WarningThresholdHigh   = 0.95
)

type TrackUsageRequest struct {
	FeatureName string `json:"feature_name" validate:"required"`
	Amount      int    `json:"amount" validate:"omitempty,min=1"`
}

type TrackUsageResponse struct {
	Success    bool   `json:"success"`
	UsageCount int    `json:"usage_count"`
	UsageLimit int    `json:"usage_limit"`
	Remaining  int    `json:"remaining"`
	Reason     string `json:"reason,omitempty"`
}

type UsageLimitResponse struct {
	FeatureName string    `json:"feature_name"`
	UsageCount  int       `json:"usage_count"`
	UsageLimit  int       `json:"usage_limit"`
	Remaining   int       `json:"remaining"`
	UsagePeriod string    `json:"usage_period"`
	ResetDate   time.Time `json:"reset_date"`
}

type UsageSummaryResponse struct {
	UserId         uuid.UUID             `json:"user_id"`
	PlanName       string                `json:"plan_name"`
	Features       []*UsageLimitResponse `json:"features"`
	NearLimitCount int                   `json:"near_limit_count"`
	AtLimitCount   int                   `json:"at_limit_count"`
	UnreadWarnings int                   `json:"unread_warnings"`
}

// UsageWarningMessage is the bus payload consumed by the notification worker.
type UsageWarningMessage struct {
	UserId      uuid.UUID `json:"user_id"`
	FeatureName string    `json:"feature_name"`
	WarningType string    `json:"warning_type"`
	Severity    string    `json:"severity"`
	UsageCount  int       `json:"usage_count"`
	UsageLimit  int       `json:"usage_limit"`
	Percentage  float64   `json:"percentage"`
}

type UsageWarning struct {
	FeatureName string  `json:"feature_name"`
	WarningType string  `json:"warning_type"`
	Severity    string  `json:"severity"`
	UsageCount  int     `json:"usage_count"`
	UsageLimit  int     `json:"usage_limit"`
	Percentage  float64 `json:"percentage"`
}

type NotificationResponse struct {
	Id               uuid.UUID              `json:"id"`
	NotificationType string                 `json:"notification_type"`
	Title            string                 `json:"title"`
	Message          string                 `json:"message"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	IsRead           bool                   `json:"is_read"`
	CreatedAt        time.Time              `json:"created_at"`
}
