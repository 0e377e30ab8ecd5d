package implementation

import (
	"context"
	"errors"
	"time"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/mapper"
	"allnimall-store-be/internal/model"
	"allnimall-store-be/internal/repository/contract"
	"allnimall-store-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageRepository(db *gorm.DB) contract.UsageRepository {
	return &UsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *UsageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageRepositoryImpl) Create(ctx context.Context, usage *entity.FeatureUsage) error {
	m := r.mapper.UsageToModel(usage)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*usage = *r.mapper.UsageToEntity(m)
	return nil
}

func (r *UsageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureUsage, error) {
	var m model.FeatureUsage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UsageToEntity(&m), nil
}

func (r *UsageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureUsage, error) {
	var models []*model.FeatureUsage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FeatureUsage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.UsageToEntity(m)
	}
	return entities, nil
}

func (r *UsageRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.FeatureUsage{}).Error
}

// IncrementWithinLimit is the one operation requiring true atomicity: two
// concurrent requests for the same (user, feature) must not both succeed when
// only one unit of quota remains. Hence a single conditional UPDATE instead
// of read-then-write.
func (r *UsageRepositoryImpl) IncrementWithinLimit(ctx context.Context, userId uuid.UUID, featureName string, by int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.FeatureUsage{}).
		Where("user_id = ? AND feature_name = ?", userId, featureName).
		Where("usage_limit <= 0 OR usage_count + ? <= usage_limit", by).
		UpdateColumns(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + ?", by),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ResetDue advances reset_date from its previous value, not from now, so
// repeated or late sweep runs do not drift the billing-period boundary.
func (r *UsageRepositoryImpl) ResetDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.FeatureUsage{}).
		Where("reset_date <= ?", now).
		UpdateColumns(map[string]interface{}{
			"usage_count": 0,
			"reset_date": gorm.Expr(`reset_date + CASE usage_period
				WHEN 'daily' THEN INTERVAL '1 day'
				WHEN 'weekly' THEN INTERVAL '7 days'
				WHEN 'yearly' THEN INTERVAL '1 year'
				ELSE INTERVAL '1 month'
			END`),
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
