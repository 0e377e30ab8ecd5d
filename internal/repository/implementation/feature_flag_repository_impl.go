package implementation

import (
	"context"
	"errors"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/mapper"
	"allnimall-store-be/internal/model"
	"allnimall-store-be/internal/repository/contract"
	"allnimall-store-be/internal/repository/specification"

	"gorm.io/gorm"
)

type FeatureFlagRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewFeatureFlagRepository(db *gorm.DB) contract.FeatureFlagRepository {
	return &FeatureFlagRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *FeatureFlagRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FeatureFlagRepositoryImpl) Create(ctx context.Context, flag *entity.FeatureFlag) error {
	m := r.mapper.FlagToModel(flag)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*flag = *r.mapper.FlagToEntity(m)
	return nil
}

func (r *FeatureFlagRepositoryImpl) Update(ctx context.Context, flag *entity.FeatureFlag) error {
	m := r.mapper.FlagToModel(flag)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *FeatureFlagRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureFlag, error) {
	var m model.FeatureFlag
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FlagToEntity(&m), nil
}

func (r *FeatureFlagRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureFlag, error) {
	var models []*model.FeatureFlag
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FeatureFlag, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FlagToEntity(m)
	}
	return entities, nil
}
