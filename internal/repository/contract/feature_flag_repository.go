package contract

import (
	"context"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/repository/specification"
)

type FeatureFlagRepository interface {
	Create(ctx context.Context, flag *entity.FeatureFlag) error
	Update(ctx context.Context, flag *entity.FeatureFlag) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureFlag, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureFlag, error)
}
