// FILE: internal/service/feature_access_service.go
package service

import (
	"context"
	"time"

	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/pkg/logger"
	"allnimall-store-be/internal/repository/specification"
	"allnimall-store-be/internal/repository/unitofwork"
	"allnimall-store-be/pkg/flagcache"

	"github.com/google/uuid"
)

const (
	ReasonNoActiveSubscription = "No active subscription found"
	ReasonFeatureNotFound      = "Feature not found"
	ReasonFeatureDisabled      = "Feature is disabled for this plan"
	ReasonLimitExceeded        = "Usage limit exceeded"
)

type IFeatureAccessService interface {
	// ResolveFlag returns the effective flag for a feature under a plan:
	// the plan-scoped override if one exists, otherwise the default row.
	ResolveFlag(ctx context.Context, planId uuid.UUID, featureName string) (*entity.FeatureFlag, error)
	FlagsForPlan(ctx context.Context, planId uuid.UUID) ([]*entity.FeatureFlag, error)
	CheckFeatureAccess(ctx context.Context, userId uuid.UUID, featureName string) (*dto.FeatureAccess, error)
	CheckMultipleFeatures(ctx context.Context, userId uuid.UUID, featureNames []string) (map[string]*dto.FeatureAccess, error)
	GetPlanFeatureMapping(ctx context.Context, planId uuid.UUID) (map[string]*dto.PlanFeatureResponse, error)
	InvalidateFlags(planId uuid.UUID)

	// ActiveSubscription returns the user's trial or active subscription,
	// or nil when the user has none.
	ActiveSubscription(ctx context.Context, userId uuid.UUID) (*entity.UserSubscription, error)
}

type featureAccessService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *flagcache.FlagCache
	logger     logger.ILogger
}

func NewFeatureAccessService(uowFactory unitofwork.RepositoryFactory, cache *flagcache.FlagCache, logger logger.ILogger) IFeatureAccessService {
	return &featureAccessService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger,
	}
}

func (s *featureAccessService) FlagsForPlan(ctx context.Context, planId uuid.UUID) ([]*entity.FeatureFlag, error) {
	if flags, found := s.cache.Get(planId.String()); found {
		return flags, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	flags, err := uow.FeatureFlagRepository().FindAll(ctx, specification.FlagsForPlan{PlanId: planId})
	if err != nil {
		return nil, err
	}

	s.cache.Set(planId.String(), flags)
	return flags, nil
}

func (s *featureAccessService) ResolveFlag(ctx context.Context, planId uuid.UUID, featureName string) (*entity.FeatureFlag, error) {
	flags, err := s.FlagsForPlan(ctx, planId)
	if err != nil {
		return nil, err
	}

	var fallback *entity.FeatureFlag
	for _, f := range flags {
		if f.FeatureName != featureName {
			continue
		}
		if f.PlanId != nil && *f.PlanId == planId {
			return f, nil
		}
		if f.PlanId == nil {
			fallback = f
		}
	}
	return fallback, nil
}

func (s *featureAccessService) ActiveSubscription(ctx context.Context, userId uuid.UUID) (*entity.UserSubscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusTrial || sub.Status == entity.SubscriptionStatusActive {
			return sub, nil
		}
	}
	return nil, nil
}

func (s *featureAccessService) CheckFeatureAccess(ctx context.Context, userId uuid.UUID, featureName string) (*dto.FeatureAccess, error) {
	sub, err := s.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.FeatureAccess{HasAccess: false, Reason: ReasonNoActiveSubscription}, nil
	}

	flag, err := s.ResolveFlag(ctx, sub.PlanId, featureName)
	if err != nil {
		return nil, err
	}
	if flag == nil {
		return &dto.FeatureAccess{HasAccess: false, Reason: ReasonFeatureNotFound}, nil
	}
	if !flag.Enabled {
		return &dto.FeatureAccess{HasAccess: false, Reason: ReasonFeatureDisabled}, nil
	}

	// Untracked or unlimited features are simply on.
	if flag.UsageLimit <= 0 {
		return &dto.FeatureAccess{HasAccess: true, UsageLimit: flag.UsageLimit, Remaining: -1}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	usage, err := uow.UsageRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByFeature{Name: featureName},
	)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		// Ledger row not initialized yet; full quota available.
		return &dto.FeatureAccess{HasAccess: true, UsageLimit: flag.UsageLimit, Remaining: flag.UsageLimit}, nil
	}

	access := &dto.FeatureAccess{
		UsageCount: usage.UsageCount,
		UsageLimit: usage.UsageLimit,
		Remaining:  usage.Remaining(),
	}
	resetDate := usage.ResetDate
	access.ResetDate = &resetDate

	if usage.UsageLimit > 0 && usage.UsageCount >= usage.UsageLimit {
		access.HasAccess = false
		access.Reason = ReasonLimitExceeded
		return access, nil
	}

	access.HasAccess = true
	return access, nil
}

func (s *featureAccessService) CheckMultipleFeatures(ctx context.Context, userId uuid.UUID, featureNames []string) (map[string]*dto.FeatureAccess, error) {
	res := make(map[string]*dto.FeatureAccess, len(featureNames))
	for _, name := range featureNames {
		access, err := s.CheckFeatureAccess(ctx, userId, name)
		if err != nil {
			return nil, err
		}
		res[name] = access
	}
	return res, nil
}

// GetPlanFeatureMapping returns the plan's effective feature set: every
// default row, with plan-scoped overrides applied on top.
func (s *featureAccessService) GetPlanFeatureMapping(ctx context.Context, planId uuid.UUID) (map[string]*dto.PlanFeatureResponse, error) {
	flags, err := s.FlagsForPlan(ctx, planId)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]*dto.PlanFeatureResponse, len(flags))
	for _, f := range flags {
		isOverride := f.PlanId != nil
		if existing, ok := mapping[f.FeatureName]; ok && existing.IsOverride && !isOverride {
			continue
		}
		mapping[f.FeatureName] = &dto.PlanFeatureResponse{
			FeatureName:   f.FeatureName,
			Enabled:       f.Enabled,
			UsageLimit:    f.UsageLimit,
			ResetPeriod:   string(f.ResetPeriod),
			Category:      f.Category,
			IsCoreFeature: f.IsCoreFeature,
			IsOverride:    isOverride,
		}
	}
	return mapping, nil
}

func (s *featureAccessService) InvalidateFlags(planId uuid.UUID) {
	s.cache.Invalidate(planId.String())
	s.logger.Debug("feature_access", "Flag cache invalidated", map[string]interface{}{
		"plan_id": planId,
	})
}

// NextResetDate computes the first reset boundary for a fresh ledger row.
func NextResetDate(from time.Time, period entity.UsagePeriod) time.Time {
	switch period {
	case entity.UsagePeriodDaily:
		return from.AddDate(0, 0, 1)
	case entity.UsagePeriodWeekly:
		return from.AddDate(0, 0, 7)
	case entity.UsagePeriodYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}
