package contract

import (
	"context"
	"time"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UsageRepository interface {
	Create(ctx context.Context, usage *entity.FeatureUsage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureUsage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureUsage, error)
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error // soft delete

	// IncrementWithinLimit adds `by` to the counter only if the result stays
	// within the record's limit (limit <= 0 means untracked/unlimited). It is
	// a single conditional UPDATE so concurrent callers cannot oversubscribe.
	// Returns false without mutating when the increment would exceed the limit
	// or no record exists.
	IncrementWithinLimit(ctx context.Context, userId uuid.UUID, featureName string, by int) (bool, error)

	// ResetDue zeroes every counter whose reset date has passed, advancing
	// reset_date by one usage_period from its previous value. Returns the
	// number of rows reset.
	ResetDue(ctx context.Context, now time.Time) (int64, error)
}
