// FILE: internal/entity/billing_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string
type PaymentStatus string
type PlanChangeType string
type PlanChangeStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusFailed    InvoiceStatus = "failed"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"

	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCancelled PaymentStatus = "cancelled"

	PlanChangeTypeUpgrade   PlanChangeType = "upgrade"
	PlanChangeTypeDowngrade PlanChangeType = "downgrade"

	PlanChangeStatusPending   PlanChangeStatus = "pending"
	PlanChangeStatusApproved  PlanChangeStatus = "approved"
	PlanChangeStatusRejected  PlanChangeStatus = "rejected"
	PlanChangeStatusCompleted PlanChangeStatus = "completed"
	PlanChangeStatusCancelled PlanChangeStatus = "cancelled"
)

// BillingInvoice is one billing attempt for a subscription.
type BillingInvoice struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	SubscriptionId   uuid.UUID
	InvoiceNumber    string
	CustomerEmail    string
	Amount           float64
	Currency         string
	Status           InvoiceStatus
	DueDate          time.Time
	PaidAt           *time.Time
	PaymentReference string // gateway order id
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BillingPayment is one charge attempt against an invoice. Append-only;
// TransactionId is the gateway id and doubles as the idempotency key.
type BillingPayment struct {
	Id            uuid.UUID
	InvoiceId     uuid.UUID
	Amount        float64
	Currency      string
	PaymentMethod string
	Status        PaymentStatus
	TransactionId string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlanChangeRequest captures a requested upgrade/downgrade with its proration
// preview. Approval happens outside this service.
type PlanChangeRequest struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	FromPlanId      uuid.UUID
	ToPlanId        uuid.UUID
	ChangeType      PlanChangeType
	Status          PlanChangeStatus
	ProrationAmount float64
	EffectiveDate   time.Time
	Reason          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
