package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByStatus filters subscriptions or invoices by their status column.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ActivePlans keeps only plans visible in the catalog.
type ActivePlans struct{}

func (s ActivePlans) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ByFeature filters usage records and flags by feature name.
type ByFeature struct {
	Name string
}

func (s ByFeature) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("feature_name = ?", s.Name)
}

// DueForBilling selects subscriptions the recurring sweep must invoice:
// active, auto-renewing, next billing date reached.
type DueForBilling struct {
	Now time.Time
}

func (s DueForBilling) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND auto_renew = ? AND next_billing_date <= ?",
		"active", true, s.Now)
}

// FlagsForPlan selects the flag rows relevant to one plan: its overrides
// plus the plan-agnostic defaults (plan_id IS NULL).
type FlagsForPlan struct {
	PlanId interface{} // uuid.UUID or nil for defaults-only
}

func (s FlagsForPlan) Apply(db *gorm.DB) *gorm.DB {
	if s.PlanId == nil {
		return db
	}
	return db.Where("plan_id = ? OR plan_id IS NULL", s.PlanId)
}
