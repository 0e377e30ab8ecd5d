package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingInvoice struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	SubscriptionId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	InvoiceNumber    string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	CustomerEmail    string         `gorm:"type:varchar(255)"`
	Amount           float64        `gorm:"type:decimal(12,2);not null"`
	Currency         string         `gorm:"type:varchar(10);not null;default:'IDR'"`
	Status           string         `gorm:"type:varchar(20);not null;index"`
	DueDate          time.Time      `gorm:"not null"`
	PaidAt           *time.Time     ``
	PaymentReference string         `gorm:"type:varchar(255);index"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (BillingInvoice) TableName() string {
	return "billing_invoices"
}

type BillingPayment struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        float64   `gorm:"type:decimal(12,2);not null"`
	Currency      string    `gorm:"type:varchar(10);not null;default:'IDR'"`
	PaymentMethod string    `gorm:"type:varchar(50)"`
	Status        string    `gorm:"type:varchar(20);not null"`
	TransactionId string    `gorm:"type:varchar(255);uniqueIndex"`
	FailureReason string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (BillingPayment) TableName() string {
	return "billing_payments"
}

type PlanChangeRequest struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	FromPlanId      uuid.UUID      `gorm:"type:uuid;not null"`
	ToPlanId        uuid.UUID      `gorm:"type:uuid;not null"`
	ChangeType      string         `gorm:"type:varchar(20);not null"`
	Status          string         `gorm:"type:varchar(20);not null;default:'pending'"`
	ProrationAmount float64        `gorm:"type:decimal(12,2);default:0"`
	EffectiveDate   time.Time      ``
	Reason          string         `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (PlanChangeRequest) TableName() string {
	return "plan_change_requests"
}
