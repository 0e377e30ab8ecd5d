// FILE: internal/service/usage_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/pkg/logger"
	"allnimall-store-be/internal/repository/specification"
	"allnimall-store-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUsageService interface {
	TrackUsage(ctx context.Context, userId uuid.UUID, req *dto.TrackUsageRequest) (*dto.TrackUsageResponse, error)
	GetUsageLimit(ctx context.Context, userId uuid.UUID, featureName string) (*dto.UsageLimitResponse, error)
	GetUsageSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error)
	GetNotifications(ctx context.Context, userId uuid.UUID, unreadOnly bool) ([]*dto.NotificationResponse, error)
	MarkNotificationRead(ctx context.Context, userId uuid.UUID, notificationId uuid.UUID) error
}

type usageService struct {
	uowFactory       unitofwork.RepositoryFactory
	featureAccess    IFeatureAccessService
	warningPublisher IPublisherService
	logger           logger.ILogger
}

func NewUsageService(
	uowFactory unitofwork.RepositoryFactory,
	featureAccess IFeatureAccessService,
	warningPublisher IPublisherService,
	logger logger.ILogger,
) IUsageService {
	return &usageService{
		uowFactory:       uowFactory,
		featureAccess:    featureAccess,
		warningPublisher: warningPublisher,
		logger:           logger,
	}
}

// TrackUsage records one (or `Amount`) uses of a feature. Hitting the limit
// is reported as Success=false, never as an error: callers gate their own
// behavior on the response.
func (s *usageService) TrackUsage(ctx context.Context, userId uuid.UUID, req *dto.TrackUsageRequest) (*dto.TrackUsageResponse, error) {
	amount := req.Amount
	if amount <= 0 {
		amount = 1
	}

	sub, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.TrackUsageResponse{Success: false, Reason: ReasonNoActiveSubscription}, nil
	}

	flag, err := s.featureAccess.ResolveFlag(ctx, sub.PlanId, req.FeatureName)
	if err != nil {
		return nil, err
	}
	if flag == nil {
		return &dto.TrackUsageResponse{Success: false, Reason: ReasonFeatureNotFound}, nil
	}
	if !flag.Enabled {
		return &dto.TrackUsageResponse{Success: false, Reason: ReasonFeatureDisabled}, nil
	}

	// UsageLimit 0 means the feature carries no usage ledger at all.
	if flag.UsageLimit == 0 {
		return &dto.TrackUsageResponse{Success: true, UsageLimit: 0, Remaining: -1}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	usage, err := s.ensureLedgerRow(ctx, uow, userId, flag)
	if err != nil {
		return nil, err
	}

	ok, err := uow.UsageRepository().IncrementWithinLimit(ctx, userId, req.FeatureName, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &dto.TrackUsageResponse{
			Success:    false,
			UsageCount: usage.UsageCount,
			UsageLimit: usage.UsageLimit,
			Remaining:  usage.Remaining(),
			Reason:     ReasonLimitExceeded,
		}, nil
	}

	usage, err = uow.UsageRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByFeature{Name: req.FeatureName},
	)
	if err != nil {
		return nil, err
	}

	s.publishWarningIfNeeded(ctx, userId, usage)

	return &dto.TrackUsageResponse{
		Success:    true,
		UsageCount: usage.UsageCount,
		UsageLimit: usage.UsageLimit,
		Remaining:  usage.Remaining(),
	}, nil
}

// ensureLedgerRow creates the usage row on first touch of a tracked feature.
func (s *usageService) ensureLedgerRow(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, flag *entity.FeatureFlag) (*entity.FeatureUsage, error) {
	usage, err := uow.UsageRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByFeature{Name: flag.FeatureName},
	)
	if err != nil {
		return nil, err
	}
	if usage != nil {
		return usage, nil
	}

	period := flag.ResetPeriod
	if period == "" {
		period = entity.UsagePeriodMonthly
	}
	now := time.Now()
	usage = &entity.FeatureUsage{
		Id:          uuid.New(),
		UserId:      userId,
		FeatureName: flag.FeatureName,
		UsageCount:  0,
		UsageLimit:  flag.UsageLimit,
		ResetDate:   NextResetDate(now, period),
		UsagePeriod: period,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uow.UsageRepository().Create(ctx, usage); err != nil {
		return nil, err
	}
	return usage, nil
}

func (s *usageService) publishWarningIfNeeded(ctx context.Context, userId uuid.UUID, usage *entity.FeatureUsage) {
	if usage == nil || usage.UsageLimit <= 0 || s.warningPublisher == nil {
		return
	}

	pct := float64(usage.UsageCount) / float64(usage.UsageLimit)
	if pct < dto.WarningThresholdLow {
		return
	}

	warningType := entity.WarningTypeThreshold
	severity := entity.WarningSeverityLow
	switch {
	case usage.UsageCount >= usage.UsageLimit:
		warningType = entity.WarningTypeLimitReached
		severity = entity.WarningSeverityHigh
	case pct >= dto.WarningThresholdHigh:
		severity = entity.WarningSeverityHigh
	case pct >= dto.WarningThresholdMedium:
		severity = entity.WarningSeverityMedium
	}

	msg := dto.UsageWarningMessage{
		UserId:      userId,
		FeatureName: usage.FeatureName,
		WarningType: string(warningType),
		Severity:    string(severity),
		UsageCount:  usage.UsageCount,
		UsageLimit:  usage.UsageLimit,
		Percentage:  pct,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	// Warnings are auxiliary; failures must not fail the tracked action.
	if err := s.warningPublisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("usage", "Failed to publish usage warning", map[string]interface{}{
			"user_id": userId,
			"feature": usage.FeatureName,
			"error":   err.Error(),
		})
	}
}

func (s *usageService) GetUsageLimit(ctx context.Context, userId uuid.UUID, featureName string) (*dto.UsageLimitResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	usage, err := uow.UsageRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByFeature{Name: featureName},
	)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		return nil, nil
	}

	return &dto.UsageLimitResponse{
		FeatureName: usage.FeatureName,
		UsageCount:  usage.UsageCount,
		UsageLimit:  usage.UsageLimit,
		Remaining:   usage.Remaining(),
		UsagePeriod: string(usage.UsagePeriod),
		ResetDate:   usage.ResetDate,
	}, nil
}

func (s *usageService) GetUsageSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	usages, err := uow.UsageRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "feature_name", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	summary := &dto.UsageSummaryResponse{
		UserId:   userId,
		Features: make([]*dto.UsageLimitResponse, 0, len(usages)),
	}

	sub, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
		if err != nil {
			return nil, err
		}
		if plan != nil {
			summary.PlanName = plan.Name
		}
	}

	for _, u := range usages {
		summary.Features = append(summary.Features, &dto.UsageLimitResponse{
			FeatureName: u.FeatureName,
			UsageCount:  u.UsageCount,
			UsageLimit:  u.UsageLimit,
			Remaining:   u.Remaining(),
			UsagePeriod: string(u.UsagePeriod),
			ResetDate:   u.ResetDate,
		})
		if u.UsageLimit > 0 {
			pct := float64(u.UsageCount) / float64(u.UsageLimit)
			switch {
			case u.UsageCount >= u.UsageLimit:
				summary.AtLimitCount++
			case pct >= dto.WarningThresholdLow:
				summary.NearLimitCount++
			}
		}
	}

	unread, err := uow.NotificationRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.Filter("is_read", false),
	)
	if err != nil {
		return nil, err
	}
	summary.UnreadWarnings = len(unread)

	return summary, nil
}

func (s *usageService) GetNotifications(ctx context.Context, userId uuid.UUID, unreadOnly bool) ([]*dto.NotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if unreadOnly {
		specs = append(specs, specification.Filter("is_read", false))
	}

	notifications, err := uow.NotificationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		res[i] = &dto.NotificationResponse{
			Id:               n.Id,
			NotificationType: n.NotificationType,
			Title:            n.Title,
			Message:          n.Message,
			Metadata:         n.Metadata,
			IsRead:           n.IsRead,
			CreatedAt:        n.CreatedAt,
		}
	}
	return res, nil
}

func (s *usageService) MarkNotificationRead(ctx context.Context, userId uuid.UUID, notificationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Ownership check before the write.
	notifications, err := uow.NotificationRepository().FindAll(ctx,
		specification.ByID{ID: notificationId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		return ErrNotFound
	}

	return uow.NotificationRepository().MarkAsRead(ctx, notificationId)
}
