// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type BillingCycle string
type UsagePeriod string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"

	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"

	UsagePeriodDaily   UsagePeriod = "daily"
	UsagePeriodWeekly  UsagePeriod = "weekly"
	UsagePeriodMonthly UsagePeriod = "monthly"
	UsagePeriodYearly  UsagePeriod = "yearly"
)

// IsTerminal reports whether a subscription can never leave this status.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled || s == SubscriptionStatusExpired
}

// SubscriptionPlan is a priced tier from the catalog. Plans are seeded by
// admin tooling and read-only to this service.
type SubscriptionPlan struct {
	Id           uuid.UUID
	Name         string
	Slug         string
	Description  string
	Price        float64 // IDR per billing cycle
	BillingCycle BillingCycle
	Features     []string       // feature names tracked for this plan
	Limits       map[string]int // feature -> cap, -1 = unlimited
	Restrictions map[string]bool
	TrialDays    int
	IsActive     bool
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LimitFor returns the numeric cap for a feature. Missing keys and -1 both
// mean unlimited.
func (p *SubscriptionPlan) LimitFor(feature string) (limit int, limited bool) {
	v, ok := p.Limits[feature]
	if !ok || v < 0 {
		return -1, false
	}
	return v, true
}

// MonthlyPrice normalizes the plan price to a monthly rate for proration.
func (p *SubscriptionPlan) MonthlyPrice() float64 {
	if p.BillingCycle == BillingCycleYearly {
		return p.Price / 12
	}
	return p.Price
}

type UserSubscription struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	PlanId             uuid.UUID
	Status             SubscriptionStatus
	StartDate          time.Time
	EndDate            *time.Time
	NextBillingDate    *time.Time
	TrialEndDate       *time.Time
	AutoRenew          bool
	CancelledAt        *time.Time
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type FeatureUsage struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	FeatureName string
	UsageCount  int
	UsageLimit  int
	ResetDate   time.Time
	UsagePeriod UsagePeriod
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Remaining returns units left before the limit, or -1 when unlimited.
func (u *FeatureUsage) Remaining() int {
	if u.UsageLimit <= 0 {
		return -1
	}
	if r := u.UsageLimit - u.UsageCount; r > 0 {
		return r
	}
	return 0
}

// FeatureFlag is a plan-scoped enablement row. PlanId nil means the flag is
// the default for every plan; a plan-scoped row overrides it.
type FeatureFlag struct {
	Id            uuid.UUID
	FeatureName   string
	PlanId        *uuid.UUID
	Enabled       bool
	UsageLimit    int // 0 = no usage tracking, -1 = unlimited
	ResetPeriod   UsagePeriod
	Description   string
	Category      string
	IsCoreFeature bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
