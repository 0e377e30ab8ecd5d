package mapper

import (
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/model"

	"gorm.io/datatypes"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}
	limits := p.Limits.Data()
	if limits == nil {
		limits = map[string]int{}
	}
	restrictions := p.Restrictions.Data()
	if restrictions == nil {
		restrictions = map[string]bool{}
	}
	return &entity.SubscriptionPlan{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        p.Price,
		BillingCycle: entity.BillingCycle(p.BillingCycle),
		Features:     []string(p.Features),
		Limits:       limits,
		Restrictions: restrictions,
		TrialDays:    p.TrialDays,
		IsActive:     p.IsActive,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.SubscriptionPlan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPlan{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        p.Price,
		BillingCycle: string(p.BillingCycle),
		Features:     datatypes.NewJSONSlice(p.Features),
		Limits:       datatypes.NewJSONType(p.Limits),
		Restrictions: datatypes.NewJSONType(p.Restrictions),
		TrialDays:    p.TrialDays,
		IsActive:     p.IsActive,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.UserSubscription) *entity.UserSubscription {
	if s == nil {
		return nil
	}
	return &entity.UserSubscription{
		Id:                 s.Id,
		UserId:             s.UserId,
		PlanId:             s.PlanId,
		Status:             entity.SubscriptionStatus(s.Status),
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		NextBillingDate:    s.NextBillingDate,
		TrialEndDate:       s.TrialEndDate,
		AutoRenew:          s.AutoRenew,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.UserSubscription) *model.UserSubscription {
	if s == nil {
		return nil
	}
	return &model.UserSubscription{
		Id:                 s.Id,
		UserId:             s.UserId,
		PlanId:             s.PlanId,
		Status:             string(s.Status),
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		NextBillingDate:    s.NextBillingDate,
		TrialEndDate:       s.TrialEndDate,
		AutoRenew:          s.AutoRenew,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
