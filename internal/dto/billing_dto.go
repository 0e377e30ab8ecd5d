package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	PlanId    uuid.UUID `json:"plan_id" validate:"required"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone"`
}

type CheckoutResponse struct {
	SubscriptionId  uuid.UUID `json:"subscription_id"`
	InvoiceNumber   string    `json:"invoice_number"`
	SnapToken       string    `json:"snap_token"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
}

// MidtransWebhookRequest mirrors the gateway's HTTP notification payload.
type MidtransWebhookRequest struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionId     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionTime   string `json:"transaction_time"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	Currency          string `json:"currency"`
}

// WebhookResult reports what a notification did. Unprocessable notifications
// (unknown order, bad formats) return Success=false rather than an error so
// the gateway does not retry them forever.
type WebhookResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SubscriptionStatusResponse struct {
	SubscriptionId  uuid.UUID  `json:"subscription_id"`
	PlanId          uuid.UUID  `json:"plan_id"`
	PlanName        string     `json:"plan_name"`
	Status          string     `json:"status"`
	IsActive        bool       `json:"is_active"`
	StartDate       time.Time  `json:"start_date"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	TrialEndDate    *time.Time `json:"trial_end_date,omitempty"`
	AutoRenew       bool       `json:"auto_renew"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

type InvoiceResponse struct {
	Id            uuid.UUID  `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PaymentResponse struct {
	Id            uuid.UUID `json:"id"`
	InvoiceId     uuid.UUID `json:"invoice_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	TransactionId string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type RecurringSweepResult struct {
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

type UsageResetResult struct {
	ResetCount int64 `json:"reset_count"`
}
