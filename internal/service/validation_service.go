// FILE: internal/service/validation_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/pkg/logger"
	"allnimall-store-be/internal/repository/specification"
	"allnimall-store-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IValidationService interface {
	ValidateAction(ctx context.Context, userId uuid.UUID, featureName string, count int) (*dto.ValidationResult, error)
	ValidateMultipleActions(ctx context.Context, userId uuid.UUID, req *dto.ValidateMultipleRequest) (*dto.ValidateMultipleResponse, error)
	CanUpgradeToPlan(ctx context.Context, userId uuid.UUID, targetPlanId uuid.UUID) (*dto.UpgradeCheckResponse, error)
	GetRecommendedPlan(ctx context.Context, userId uuid.UUID) (*dto.RecommendedPlanResponse, error)
	GetPlanRestrictions(ctx context.Context, planId uuid.UUID) (*dto.PlanRestrictionResponse, error)
	GetUsageReport(ctx context.Context, userId uuid.UUID) ([]*dto.FeatureUsageReport, error)
	CreatePlanChangeRequest(ctx context.Context, userId uuid.UUID, req *dto.PlanChangeRequestCreate) (*dto.PlanChangeResponse, error)
}

type validationService struct {
	uowFactory    unitofwork.RepositoryFactory
	featureAccess IFeatureAccessService
	logger        logger.ILogger
}

func NewValidationService(uowFactory unitofwork.RepositoryFactory, featureAccess IFeatureAccessService, logger logger.ILogger) IValidationService {
	return &validationService{
		uowFactory:    uowFactory,
		featureAccess: featureAccess,
		logger:        logger,
	}
}

// ValidateAction answers "could the user perform `count` more uses" without
// consuming quota. The check is forward-looking: current + count must fit.
func (s *validationService) ValidateAction(ctx context.Context, userId uuid.UUID, featureName string, count int) (*dto.ValidationResult, error) {
	if count <= 0 {
		count = 1
	}

	sub, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.ValidationResult{IsValid: false, Reason: ReasonNoActiveSubscription}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	planName := ""
	if plan != nil {
		planName = plan.Name
	}

	flag, err := s.featureAccess.ResolveFlag(ctx, sub.PlanId, featureName)
	if err != nil {
		return nil, err
	}
	if flag == nil {
		return &dto.ValidationResult{IsValid: false, Reason: ReasonFeatureNotFound, CurrentPlan: planName}, nil
	}
	if !flag.Enabled {
		return &dto.ValidationResult{IsValid: false, Reason: ReasonFeatureDisabled, CurrentPlan: planName}, nil
	}
	if flag.UsageLimit <= 0 {
		return &dto.ValidationResult{IsValid: true, CurrentPlan: planName}, nil
	}

	usage, err := uow.UsageRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByFeature{Name: featureName},
	)
	if err != nil {
		return nil, err
	}

	current := 0
	limit := flag.UsageLimit
	if usage != nil {
		current = usage.UsageCount
		limit = usage.UsageLimit
	}

	info := &dto.UsageInfo{Current: current, Limit: limit}
	if r := limit - current; r > 0 {
		info.Remaining = r
	}

	if current+count > limit {
		return &dto.ValidationResult{
			IsValid:     false,
			Reason:      ReasonLimitExceeded,
			CurrentPlan: planName,
			UsageInfo:   info,
		}, nil
	}

	return &dto.ValidationResult{IsValid: true, CurrentPlan: planName, UsageInfo: info}, nil
}

func (s *validationService) ValidateMultipleActions(ctx context.Context, userId uuid.UUID, req *dto.ValidateMultipleRequest) (*dto.ValidateMultipleResponse, error) {
	res := &dto.ValidateMultipleResponse{
		AllValid: true,
		Results:  make(map[string]*dto.ValidationResult, len(req.Actions)),
	}

	for _, action := range req.Actions {
		result, err := s.ValidateAction(ctx, userId, action.FeatureName, action.Count)
		if err != nil {
			return nil, err
		}
		res.Results[action.FeatureName] = result
		if !result.IsValid {
			res.AllValid = false
		}
	}

	return res, nil
}

// CanUpgradeToPlan rejects moves onto plans the user's current usage would
// already violate, e.g. 12 stores onto a 10-store cap.
func (s *validationService) CanUpgradeToPlan(ctx context.Context, userId uuid.UUID, targetPlanId uuid.UUID) (*dto.UpgradeCheckResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	target, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: targetPlanId})
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrPlanNotFound
	}

	usages, err := uow.UsageRepository().FindAll(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}

	var reasons []string
	currentUsage := make(map[string]int, len(usages))
	for _, u := range usages {
		currentUsage[u.FeatureName] = u.UsageCount
		limit, limited := target.LimitFor(u.FeatureName)
		if !limited {
			continue
		}
		if u.UsageCount > limit {
			reasons = append(reasons, fmt.Sprintf(
				"Current usage exceeds target plan limits: %s (%d > %d)",
				u.FeatureName, u.UsageCount, limit))
		}
	}

	return &dto.UpgradeCheckResponse{
		CanUpgrade:   len(reasons) == 0,
		Reasons:      reasons,
		CurrentUsage: currentUsage,
		TargetLimits: target.Limits,
	}, nil
}

// GetRecommendedPlan picks the cheapest active plan whose limits cover the
// user's current usage.
func (s *validationService) GetRecommendedPlan(ctx context.Context, userId uuid.UUID) (*dto.RecommendedPlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.PlanRepository().FindAll(ctx, specification.ActivePlans{})
	if err != nil {
		return nil, err
	}

	usages, err := uow.UsageRepository().FindAll(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Price < plans[j].Price
	})

	var currentPlanId *uuid.UUID
	sub, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		planId := sub.PlanId
		currentPlanId = &planId
	}

	analysis := make(map[string]int, len(usages))
	for _, u := range usages {
		analysis[u.FeatureName] = u.UsageCount
	}

	for _, plan := range plans {
		// Recommending the plan the user is already on is useless.
		if currentPlanId != nil && plan.Id == *currentPlanId {
			continue
		}
		if planFitsUsage(plan, usages) {
			return &dto.RecommendedPlanResponse{
				Plan:          planToResponse(plan),
				Reason:        "Cheapest plan that fits your current usage",
				CurrentPlanId: currentPlanId,
				UsageAnalysis: analysis,
			}, nil
		}
	}

	return &dto.RecommendedPlanResponse{
		Reason:        "No plan fits your current usage",
		CurrentPlanId: currentPlanId,
		UsageAnalysis: analysis,
	}, nil
}

func planFitsUsage(plan *entity.SubscriptionPlan, usages []*entity.FeatureUsage) bool {
	for _, u := range usages {
		limit, limited := plan.LimitFor(u.FeatureName)
		if limited && u.UsageCount > limit {
			return false
		}
	}
	return true
}

func planToResponse(plan *entity.SubscriptionPlan) *dto.PlanResponse {
	return &dto.PlanResponse{
		Id:           plan.Id,
		Name:         plan.Name,
		Slug:         plan.Slug,
		Description:  plan.Description,
		Price:        plan.Price,
		BillingCycle: string(plan.BillingCycle),
		Features:     plan.Features,
		Limits:       plan.Limits,
		Restrictions: plan.Restrictions,
		TrialDays:    plan.TrialDays,
		SortOrder:    plan.SortOrder,
	}
}

func (s *validationService) GetPlanRestrictions(ctx context.Context, planId uuid.UUID) (*dto.PlanRestrictionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: planId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	return &dto.PlanRestrictionResponse{
		PlanId:       plan.Id,
		PlanName:     plan.Name,
		Restrictions: plan.Restrictions,
		Limits:       plan.Limits,
	}, nil
}

// GetUsageReport joins the user's usage ledger against the effective flags of
// their plan, one row per feature the plan knows about.
func (s *validationService) GetUsageReport(ctx context.Context, userId uuid.UUID) ([]*dto.FeatureUsageReport, error) {
	sub, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	mapping, err := s.featureAccess.GetPlanFeatureMapping(ctx, sub.PlanId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	usages, err := uow.UsageRepository().FindAll(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(usages))
	for _, u := range usages {
		counts[u.FeatureName] = u.UsageCount
	}

	report := make([]*dto.FeatureUsageReport, 0, len(mapping))
	for name, feature := range mapping {
		row := &dto.FeatureUsageReport{
			FeatureName: name,
			Limit:       feature.UsageLimit,
			Current:     counts[name],
		}
		switch {
		case !feature.Enabled:
			row.Reason = ReasonFeatureDisabled
		case feature.UsageLimit > 0 && counts[name] >= feature.UsageLimit:
			row.Reason = ReasonLimitExceeded
		default:
			row.CanPerform = true
		}
		report = append(report, row)
	}
	sort.Slice(report, func(i, j int) bool { return report[i].FeatureName < report[j].FeatureName })
	return report, nil
}

// CreatePlanChangeRequest records an upgrade/downgrade request with its
// proration preview. Proration uses a 30-day month approximation:
// (dailyRate(to) - dailyRate(from)) * daysRemaining.
func (s *validationService) CreatePlanChangeRequest(ctx context.Context, userId uuid.UUID, req *dto.PlanChangeRequestCreate) (*dto.PlanChangeResponse, error) {
	sub, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	fromPlan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	toPlan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: req.ToPlanId})
	if err != nil {
		return nil, err
	}
	if fromPlan == nil || toPlan == nil {
		return nil, ErrPlanNotFound
	}

	if toPlan.Price > fromPlan.Price {
		check, err := s.CanUpgradeToPlan(ctx, userId, toPlan.Id)
		if err != nil {
			return nil, err
		}
		if !check.CanUpgrade {
			return nil, fmt.Errorf("cannot change plan: %v", check.Reasons)
		}
	}

	changeType := entity.PlanChangeTypeUpgrade
	if toPlan.Price < fromPlan.Price {
		changeType = entity.PlanChangeTypeDowngrade
	}

	now := time.Now()
	daysRemaining := 0
	if sub.NextBillingDate != nil && sub.NextBillingDate.After(now) {
		daysRemaining = int(sub.NextBillingDate.Sub(now).Hours() / 24)
	}

	proration := (toPlan.MonthlyPrice()/30 - fromPlan.MonthlyPrice()/30) * float64(daysRemaining)

	change := &entity.PlanChangeRequest{
		Id:              uuid.New(),
		UserId:          userId,
		FromPlanId:      fromPlan.Id,
		ToPlanId:        toPlan.Id,
		ChangeType:      changeType,
		Status:          entity.PlanChangeStatusPending,
		ProrationAmount: proration,
		EffectiveDate:   now,
		Reason:          req.Reason,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uow.PlanChangeRepository().Create(ctx, change); err != nil {
		return nil, err
	}

	s.logger.Info("validation", "Plan change requested", map[string]interface{}{
		"user_id":   userId,
		"from_plan": fromPlan.Slug,
		"to_plan":   toPlan.Slug,
		"proration": proration,
	})

	return &dto.PlanChangeResponse{
		Id:              change.Id,
		FromPlanId:      change.FromPlanId,
		ToPlanId:        change.ToPlanId,
		ChangeType:      string(change.ChangeType),
		Status:          string(change.Status),
		ProrationAmount: change.ProrationAmount,
		EffectiveDate:   change.EffectiveDate,
	}, nil
}
