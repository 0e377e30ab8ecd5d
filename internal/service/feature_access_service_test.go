package service

import (
	"context"
	"testing"
	"time"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/pkg/flagcache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newFeatureAccessFixture(t *testing.T) (IFeatureAccessService, *fakeStore) {
	t.Helper()
	factory, store := newFakeFactory()
	svc := NewFeatureAccessService(factory, flagcache.New(time.Minute), nopLogger{})
	return svc, store
}

func TestResolveFlagOverrideBeatsDefault(t *testing.T) {
	ctx := context.Background()
	svc, store := newFeatureAccessFixture(t)
	planId := uuid.New()

	seedFlag(store, "stores", nil, true, 1)
	override := seedFlag(store, "stores", &planId, true, 10)

	flag, err := svc.ResolveFlag(ctx, planId, "stores")
	assert.NoError(t, err)
	if assert.NotNil(t, flag) {
		assert.Equal(t, override.Id, flag.Id)
		assert.Equal(t, 10, flag.UsageLimit)
	}

	// A plan without an override falls back to the default row.
	otherPlan := uuid.New()
	flag, err = svc.ResolveFlag(ctx, otherPlan, "stores")
	assert.NoError(t, err)
	if assert.NotNil(t, flag) {
		assert.Nil(t, flag.PlanId)
		assert.Equal(t, 1, flag.UsageLimit)
	}

	flag, err = svc.ResolveFlag(ctx, planId, "teleport")
	assert.NoError(t, err)
	assert.Nil(t, flag)
}

func TestFlagsForPlanCaching(t *testing.T) {
	ctx := context.Background()
	svc, store := newFeatureAccessFixture(t)
	planId := uuid.New()
	seedFlag(store, "stores", &planId, true, 10)

	flags, err := svc.FlagsForPlan(ctx, planId)
	assert.NoError(t, err)
	assert.Len(t, flags, 1)

	// Cached: a row added behind the cache's back is not visible yet.
	seedFlag(store, "products", &planId, true, 50)
	flags, err = svc.FlagsForPlan(ctx, planId)
	assert.NoError(t, err)
	assert.Len(t, flags, 1)

	svc.InvalidateFlags(planId)
	flags, err = svc.FlagsForPlan(ctx, planId)
	assert.NoError(t, err)
	assert.Len(t, flags, 2)
}

func TestActiveSubscription(t *testing.T) {
	ctx := context.Background()
	svc, store := newFeatureAccessFixture(t)
	planId := uuid.New()
	userId := uuid.New()

	// Cancelled history plus a live trial; the trial wins.
	cancelled := seedSubscription(store, userId, planId, entity.SubscriptionStatusCancelled, nil)
	cancelled.CreatedAt = time.Now().AddDate(0, -6, 0)
	trial := seedSubscription(store, userId, planId, entity.SubscriptionStatusTrial, nil)
	trial.CreatedAt = time.Now()

	sub, err := svc.ActiveSubscription(ctx, userId)
	assert.NoError(t, err)
	if assert.NotNil(t, sub) {
		assert.Equal(t, trial.Id, sub.Id)
	}

	sub, err = svc.ActiveSubscription(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, sub)
}

func TestCheckFeatureAccess(t *testing.T) {
	ctx := context.Background()
	svc, store := newFeatureAccessFixture(t)
	plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
	userId := uuid.New()
	seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)

	seedFlag(store, "stores", nil, true, 10)
	seedFlag(store, "products", nil, true, -1)
	seedFlag(store, "api_access", nil, false, 0)
	seedUsage(store, userId, "stores", 10, 10)

	tests := []struct {
		name       string
		feature    string
		wantAccess bool
		wantReason string
	}{
		{name: "at limit", feature: "stores", wantAccess: false, wantReason: ReasonLimitExceeded},
		{name: "unlimited", feature: "products", wantAccess: true},
		{name: "disabled", feature: "api_access", wantAccess: false, wantReason: ReasonFeatureDisabled},
		{name: "unknown", feature: "teleport", wantAccess: false, wantReason: ReasonFeatureNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, err := svc.CheckFeatureAccess(ctx, userId, tt.feature)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAccess, access.HasAccess)
			assert.Equal(t, tt.wantReason, access.Reason)
		})
	}
}

func TestCheckFeatureAccessWithoutLedgerRow(t *testing.T) {
	ctx := context.Background()
	svc, store := newFeatureAccessFixture(t)
	plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
	userId := uuid.New()
	seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)
	seedFlag(store, "stores", nil, true, 10)

	access, err := svc.CheckFeatureAccess(ctx, userId, "stores")
	assert.NoError(t, err)
	assert.True(t, access.HasAccess)
	assert.Equal(t, 10, access.Remaining)
	assert.Equal(t, 0, access.UsageCount)
}

func TestCheckMultipleFeatures(t *testing.T) {
	ctx := context.Background()
	svc, store := newFeatureAccessFixture(t)
	plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
	userId := uuid.New()
	seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)
	seedFlag(store, "stores", nil, true, 10)
	seedFlag(store, "api_access", nil, false, 0)
	seedUsage(store, userId, "stores", 10, 10)

	res, err := svc.CheckMultipleFeatures(ctx, userId, []string{"stores", "api_access", "teleport"})
	assert.NoError(t, err)
	assert.Len(t, res, 3)
	assert.False(t, res["stores"].HasAccess)
	assert.Equal(t, ReasonLimitExceeded, res["stores"].Reason)
	assert.False(t, res["api_access"].HasAccess)
	assert.Equal(t, ReasonFeatureDisabled, res["api_access"].Reason)
	assert.False(t, res["teleport"].HasAccess)
	assert.Equal(t, ReasonFeatureNotFound, res["teleport"].Reason)
}

func TestGetPlanFeatureMapping(t *testing.T) {
	ctx := context.Background()
	svc, store := newFeatureAccessFixture(t)
	planId := uuid.New()

	seedFlag(store, "stores", nil, true, 1)
	seedFlag(store, "stores", &planId, true, 10)
	seedFlag(store, "products", nil, true, 50)

	mapping, err := svc.GetPlanFeatureMapping(ctx, planId)
	assert.NoError(t, err)
	assert.Len(t, mapping, 2)

	if assert.Contains(t, mapping, "stores") {
		assert.True(t, mapping["stores"].IsOverride)
		assert.Equal(t, 10, mapping["stores"].UsageLimit)
	}
	if assert.Contains(t, mapping, "products") {
		assert.False(t, mapping["products"].IsOverride)
		assert.Equal(t, 50, mapping["products"].UsageLimit)
	}
}

func TestNextResetDate(t *testing.T) {
	from := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period entity.UsagePeriod
		want   time.Time
	}{
		{name: "daily", period: entity.UsagePeriodDaily, want: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{name: "weekly", period: entity.UsagePeriodWeekly, want: time.Date(2026, 2, 7, 8, 0, 0, 0, time.UTC)},
		{name: "monthly", period: entity.UsagePeriodMonthly, want: time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)},
		{name: "yearly", period: entity.UsagePeriodYearly, want: time.Date(2027, 1, 31, 8, 0, 0, 0, time.UTC)},
		{name: "unknown defaults to monthly", period: entity.UsagePeriod("fortnightly"), want: time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextResetDate(from, tt.period)
			if !got.Equal(tt.want) {
				t.Errorf("NextResetDate(%s, %s) = %s, want %s", from, tt.period, got, tt.want)
			}
		})
	}
}
