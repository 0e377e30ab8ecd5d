package unitofwork

import (
	"context"

	"allnimall-store-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PlanRepository() contract.PlanRepository
	SubscriptionRepository() contract.SubscriptionRepository
	UsageRepository() contract.UsageRepository
	FeatureFlagRepository() contract.FeatureFlagRepository
	InvoiceRepository() contract.InvoiceRepository
	PaymentRepository() contract.PaymentRepository
	PlanChangeRepository() contract.PlanChangeRepository
	NotificationRepository() contract.NotificationRepository
}
