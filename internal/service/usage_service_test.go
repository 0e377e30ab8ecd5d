package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/pkg/flagcache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newUsageFixture(t *testing.T) (IUsageService, *fakeStore, *capturedPublisher) {
	t.Helper()
	factory, store := newFakeFactory()
	publisher := &capturedPublisher{}
	featureAccess := NewFeatureAccessService(factory, flagcache.New(time.Minute), nopLogger{})
	svc := NewUsageService(factory, featureAccess, publisher, nopLogger{})
	return svc, store, publisher
}

func TestTrackUsage(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newUsageFixture(t)
	plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
	userId := uuid.New()
	seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)
	seedFlag(store, "stores", nil, true, 2)

	// First touch creates the ledger row.
	res, err := svc.TrackUsage(ctx, userId, &dto.TrackUsageRequest{FeatureName: "stores"})
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.UsageCount)
	assert.Equal(t, 2, res.UsageLimit)
	assert.Equal(t, 1, res.Remaining)

	res, err = svc.TrackUsage(ctx, userId, &dto.TrackUsageRequest{FeatureName: "stores"})
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.Remaining)

	// At the limit; the denial does not consume quota and is not an error.
	res, err = svc.TrackUsage(ctx, userId, &dto.TrackUsageRequest{FeatureName: "stores"})
	assert.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, ReasonLimitExceeded, res.Reason)
	assert.Equal(t, 2, store.usages[0].UsageCount)
}

func TestTrackUsageBulkAmountAtomicity(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newUsageFixture(t)
	plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
	userId := uuid.New()
	seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)
	seedFlag(store, "products", nil, true, 50)
	seedUsage(store, userId, "products", 48, 50)

	// 48 + 3 would exceed 50: rejected whole, nothing partial.
	res, err := svc.TrackUsage(ctx, userId, &dto.TrackUsageRequest{FeatureName: "products", Amount: 3})
	assert.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 48, store.usages[0].UsageCount)

	res, err = svc.TrackUsage(ctx, userId, &dto.TrackUsageRequest{FeatureName: "products", Amount: 2})
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 50, res.UsageCount)
}

func TestTrackUsageGatekeeping(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newUsageFixture(t)
	plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
	userId := uuid.New()
	seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)
	seedFlag(store, "api_access", nil, false, 0)
	seedFlag(store, "reports", nil, true, 0)

	tests := []struct {
		name       string
		userId     uuid.UUID
		feature    string
		wantOk     bool
		wantReason string
	}{
		{name: "no subscription", userId: uuid.New(), feature: "stores", wantReason: ReasonNoActiveSubscription},
		{name: "unknown feature", userId: userId, feature: "teleport", wantReason: ReasonFeatureNotFound},
		{name: "disabled feature", userId: userId, feature: "api_access", wantReason: ReasonFeatureDisabled},
		{name: "untracked feature succeeds without ledger", userId: userId, feature: "reports", wantOk: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.TrackUsage(ctx, tt.userId, &dto.TrackUsageRequest{FeatureName: tt.feature})
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOk, res.Success)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}

	// The untracked feature never grew a ledger row.
	assert.Empty(t, store.usages)
}

func TestTrackUsageWarningSeverity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		startCount   int
		wantWarning  bool
		wantType     string
		wantSeverity string
	}{
		{name: "below threshold stays quiet", startCount: 10, wantWarning: false},
		{name: "low at seventy percent", startCount: 69, wantWarning: true, wantType: "threshold", wantSeverity: "low"},
		{name: "medium at eighty-five percent", startCount: 84, wantWarning: true, wantType: "threshold", wantSeverity: "medium"},
		{name: "high at ninety-five percent", startCount: 94, wantWarning: true, wantType: "threshold", wantSeverity: "high"},
		{name: "limit reached", startCount: 99, wantWarning: true, wantType: "limit_reached", wantSeverity: "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, publisher := newUsageFixture(t)
			plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
			userId := uuid.New()
			seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)
			seedFlag(store, "customers", nil, true, 100)
			seedUsage(store, userId, "customers", tt.startCount, 100)

			res, err := svc.TrackUsage(ctx, userId, &dto.TrackUsageRequest{FeatureName: "customers"})
			assert.NoError(t, err)
			assert.True(t, res.Success)

			if !tt.wantWarning {
				assert.Empty(t, publisher.payloads)
				return
			}
			if !assert.Len(t, publisher.payloads, 1) {
				return
			}

			var msg dto.UsageWarningMessage
			assert.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
			assert.Equal(t, userId, msg.UserId)
			assert.Equal(t, "customers", msg.FeatureName)
			assert.Equal(t, tt.wantType, msg.WarningType)
			assert.Equal(t, tt.wantSeverity, msg.Severity)
			assert.Equal(t, tt.startCount+1, msg.UsageCount)
		})
	}
}

func TestGetUsageLimit(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newUsageFixture(t)
	userId := uuid.New()
	seedUsage(store, userId, "stores", 3, 10)

	res, err := svc.GetUsageLimit(ctx, userId, "stores")
	assert.NoError(t, err)
	assert.Equal(t, "stores", res.FeatureName)
	assert.Equal(t, 3, res.UsageCount)
	assert.Equal(t, 7, res.Remaining)

	res, err = svc.GetUsageLimit(ctx, userId, "missing")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestGetUsageSummary(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newUsageFixture(t)
	plan := seedPlan(store, 99000, entity.BillingCycleMonthly)
	userId := uuid.New()
	seedSubscription(store, userId, plan.Id, entity.SubscriptionStatusActive, nil)
	seedUsage(store, userId, "stores", 3, 10)
	seedUsage(store, userId, "products", 5000, 5000)
	seedUsage(store, userId, "customers", 90, 100)
	seedUsage(store, uuid.New(), "stores", 9, 10)

	store.notifications = append(store.notifications, &entity.SubscriptionNotification{
		Id: uuid.New(), UserId: userId, NotificationType: "threshold",
		Title: "Usage warning", CreatedAt: time.Now(),
	})

	res, err := svc.GetUsageSummary(ctx, userId)
	assert.NoError(t, err)
	assert.Equal(t, userId, res.UserId)
	assert.Equal(t, "Pro", res.PlanName)
	assert.Len(t, res.Features, 3)
	assert.Equal(t, 1, res.NearLimitCount)
	assert.Equal(t, 1, res.AtLimitCount)
	assert.Equal(t, 1, res.UnreadWarnings)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newUsageFixture(t)
	userId := uuid.New()

	read := &entity.SubscriptionNotification{
		Id: uuid.New(), UserId: userId, NotificationType: "usage_warning",
		Title: "Usage warning", IsRead: true, CreatedAt: time.Now(),
	}
	unread := &entity.SubscriptionNotification{
		Id: uuid.New(), UserId: userId, NotificationType: "usage_warning",
		Title: "Usage limit reached", CreatedAt: time.Now(),
	}
	store.notifications = append(store.notifications, read, unread)

	all, err := svc.GetNotifications(ctx, userId, false)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	unreadOnly, err := svc.GetNotifications(ctx, userId, true)
	assert.NoError(t, err)
	if assert.Len(t, unreadOnly, 1) {
		assert.Equal(t, unread.Id, unreadOnly[0].Id)
	}

	err = svc.MarkNotificationRead(ctx, userId, unread.Id)
	assert.NoError(t, err)
	assert.True(t, unread.IsRead)
	assert.NotNil(t, unread.ReadAt)

	// Another user's notification is invisible.
	err = svc.MarkNotificationRead(ctx, uuid.New(), read.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}
