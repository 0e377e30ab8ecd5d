package contract

import (
	"context"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/repository/specification"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.BillingInvoice) error
	Update(ctx context.Context, invoice *entity.BillingInvoice) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingInvoice, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingInvoice, error)
}

// PaymentRepository is append-only; payments are never updated or deleted.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.BillingPayment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingPayment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingPayment, error)
}

type PlanChangeRepository interface {
	Create(ctx context.Context, request *entity.PlanChangeRequest) error
	Update(ctx context.Context, request *entity.PlanChangeRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlanChangeRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlanChangeRequest, error)
}
