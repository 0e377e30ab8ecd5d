package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Price        float64         `json:"price"`
	BillingCycle string          `json:"billing_cycle"`
	Features     []string        `json:"features"`
	Limits       map[string]int  `json:"limits"`
	Restrictions map[string]bool `json:"restrictions"`
	TrialDays    int             `json:"trial_days"`
	SortOrder    int             `json:"sort_order"`
}

type PlanRestrictionResponse struct {
	PlanId       uuid.UUID       `json:"plan_id"`
	PlanName     string          `json:"plan_name"`
	Restrictions map[string]bool `json:"restrictions"`
	Limits       map[string]int  `json:"limits"`
}

// PlanFeatureResponse is one entry of a plan's effective feature mapping:
// plan-scoped overrides merged over the plan-agnostic defaults.
type PlanFeatureResponse struct {
	FeatureName   string `json:"feature_name"`
	Enabled       bool   `json:"enabled"`
	UsageLimit    int    `json:"usage_limit"`
	ResetPeriod   string `json:"reset_period"`
	Category      string `json:"category"`
	IsCoreFeature bool   `json:"is_core_feature"`
	IsOverride    bool   `json:"is_override"`
}

type RecommendedPlanResponse struct {
	Plan          *PlanResponse  `json:"plan"`
	Reason        string         `json:"reason"`
	CurrentPlanId *uuid.UUID     `json:"current_plan_id,omitempty"`
	UsageAnalysis map[string]int `json:"usage_analysis"`
}

type UpgradeCheckResponse struct {
	CanUpgrade   bool           `json:"can_upgrade"`
	Reasons      []string       `json:"reasons,omitempty"`
	CurrentUsage map[string]int `json:"current_usage"`
	TargetLimits map[string]int `json:"target_limits"`
}

// FeatureUsageReport is one row of the usage-vs-limit report rendered by
// upgrade prompts: what the user's plan allows against what they consume.
type FeatureUsageReport struct {
	FeatureName string `json:"feature_name"`
	Limit       int    `json:"limit"`
	Current     int    `json:"current"`
	CanPerform  bool   `json:"can_perform"`
	Reason      string `json:"reason,omitempty"`
}

type PlanChangeRequestCreate struct {
	ToPlanId uuid.UUID `json:"to_plan_id" validate:"required"`
	Reason   string    `json:"reason"`
}

type PlanChangeResponse struct {
	Id              uuid.UUID `json:"id"`
	FromPlanId      uuid.UUID `json:"from_plan_id"`
	ToPlanId        uuid.UUID `json:"to_plan_id"`
	ChangeType      string    `json:"change_type"`
	Status          string    `json:"status"`
	ProrationAmount float64   `json:"proration_amount"`
	EffectiveDate   time.Time `json:"effective_date"`
}
