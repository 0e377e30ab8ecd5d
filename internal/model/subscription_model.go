package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	Id           uuid.UUID                            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string                               `gorm:"type:varchar(255);not null"`
	Slug         string                               `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description  string                               `gorm:"type:text"`
	Price        float64                              `gorm:"type:decimal(12,2);not null"`
	BillingCycle string                               `gorm:"type:varchar(20);not null"`
	Features     datatypes.JSONSlice[string]          `gorm:"type:jsonb"`
	Limits       datatypes.JSONType[map[string]int]   `gorm:"type:jsonb"`
	Restrictions datatypes.JSONType[map[string]bool]  `gorm:"type:jsonb"`
	TrialDays    int                                  `gorm:"default:14"`
	IsActive     bool                                 `gorm:"default:true"`
	SortOrder    int                                  `gorm:"default:0"`
	CreatedAt    time.Time                            `gorm:"autoCreateTime"`
	UpdatedAt    time.Time                            `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt                       `gorm:"index"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

type UserSubscription struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             uuid.UUID      `gorm:"type:uuid;not null;index"`
	PlanId             uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status             string         `gorm:"type:varchar(20);not null;index"`
	StartDate          time.Time      `gorm:"not null"`
	EndDate            *time.Time     ``
	NextBillingDate    *time.Time     `gorm:"index"`
	TrialEndDate       *time.Time     ``
	AutoRenew          bool           `gorm:"default:true"`
	CancelledAt        *time.Time     ``
	CancellationReason string         `gorm:"type:text"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

type FeatureUsage struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_feature_usage_user_feature,priority:1"`
	FeatureName string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_feature_usage_user_feature,priority:2"`
	UsageCount  int            `gorm:"default:0;not null"`
	UsageLimit  int            `gorm:"default:0;not null"`
	ResetDate   time.Time      `gorm:"not null;index"`
	UsagePeriod string         `gorm:"type:varchar(20);not null;default:'monthly'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (FeatureUsage) TableName() string {
	return "feature_usage"
}

type FeatureFlag struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FeatureName   string         `gorm:"type:varchar(100);not null;index"`
	PlanId        *uuid.UUID     `gorm:"type:uuid;index"`
	Enabled       bool           `gorm:"default:true"`
	UsageLimit    int            `gorm:"default:0"`
	ResetPeriod   string         `gorm:"type:varchar(20);default:'monthly'"`
	Description   string         `gorm:"type:text"`
	Category      string         `gorm:"type:varchar(50)"`
	IsCoreFeature bool           `gorm:"default:false"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (FeatureFlag) TableName() string {
	return "feature_flags"
}
