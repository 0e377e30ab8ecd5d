package mapper

import (
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) UsageToEntity(u *model.FeatureUsage) *entity.FeatureUsage {
	if u == nil {
		return nil
	}
	return &entity.FeatureUsage{
		Id:          u.Id,
		UserId:      u.UserId,
		FeatureName: u.FeatureName,
		UsageCount:  u.UsageCount,
		UsageLimit:  u.UsageLimit,
		ResetDate:   u.ResetDate,
		UsagePeriod: entity.UsagePeriod(u.UsagePeriod),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (m *UsageMapper) UsageToModel(u *entity.FeatureUsage) *model.FeatureUsage {
	if u == nil {
		return nil
	}
	return &model.FeatureUsage{
		Id:          u.Id,
		UserId:      u.UserId,
		FeatureName: u.FeatureName,
		UsageCount:  u.UsageCount,
		UsageLimit:  u.UsageLimit,
		ResetDate:   u.ResetDate,
		UsagePeriod: string(u.UsagePeriod),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (m *UsageMapper) FlagToEntity(f *model.FeatureFlag) *entity.FeatureFlag {
	if f == nil {
		return nil
	}
	return &entity.FeatureFlag{
		Id:            f.Id,
		FeatureName:   f.FeatureName,
		PlanId:        f.PlanId,
		Enabled:       f.Enabled,
		UsageLimit:    f.UsageLimit,
		ResetPeriod:   entity.UsagePeriod(f.ResetPeriod),
		Description:   f.Description,
		Category:      f.Category,
		IsCoreFeature: f.IsCoreFeature,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func (m *UsageMapper) FlagToModel(f *entity.FeatureFlag) *model.FeatureFlag {
	if f == nil {
		return nil
	}
	return &model.FeatureFlag{
		Id:            f.Id,
		FeatureName:   f.FeatureName,
		PlanId:        f.PlanId,
		Enabled:       f.Enabled,
		UsageLimit:    f.UsageLimit,
		ResetPeriod:   string(f.ResetPeriod),
		Description:   f.Description,
		Category:      f.Category,
		IsCoreFeature: f.IsCoreFeature,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
