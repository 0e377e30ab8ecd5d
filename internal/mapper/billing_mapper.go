package mapper

import (
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/model"

	"gorm.io/datatypes"
)

type BillingMapper struct{}

func NewBillingMapper() *BillingMapper {
	return &BillingMapper{}
}

func (m *BillingMapper) InvoiceToEntity(i *model.BillingInvoice) *entity.BillingInvoice {
	if i == nil {
		return nil
	}
	return &entity.BillingInvoice{
		Id:               i.Id,
		UserId:           i.UserId,
		SubscriptionId:   i.SubscriptionId,
		InvoiceNumber:    i.InvoiceNumber,
		CustomerEmail:    i.CustomerEmail,
		Amount:           i.Amount,
		Currency:         i.Currency,
		Status:           entity.InvoiceStatus(i.Status),
		DueDate:          i.DueDate,
		PaidAt:           i.PaidAt,
		PaymentReference: i.PaymentReference,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func (m *BillingMapper) InvoiceToModel(i *entity.BillingInvoice) *model.BillingInvoice {
	if i == nil {
		return nil
	}
	return &model.BillingInvoice{
		Id:               i.Id,
		UserId:           i.UserId,
		SubscriptionId:   i.SubscriptionId,
		InvoiceNumber:    i.InvoiceNumber,
		CustomerEmail:    i.CustomerEmail,
		Amount:           i.Amount,
		Currency:         i.Currency,
		Status:           string(i.Status),
		DueDate:          i.DueDate,
		PaidAt:           i.PaidAt,
		PaymentReference: i.PaymentReference,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func (m *BillingMapper) PaymentToEntity(p *model.BillingPayment) *entity.BillingPayment {
	if p == nil {
		return nil
	}
	return &entity.BillingPayment{
		Id:            p.Id,
		InvoiceId:     p.InvoiceId,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentMethod: p.PaymentMethod,
		Status:        entity.PaymentStatus(p.Status),
		TransactionId: p.TransactionId,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *BillingMapper) PaymentToModel(p *entity.BillingPayment) *model.BillingPayment {
	if p == nil {
		return nil
	}
	return &model.BillingPayment{
		Id:            p.Id,
		InvoiceId:     p.InvoiceId,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentMethod: p.PaymentMethod,
		Status:        string(p.Status),
		TransactionId: p.TransactionId,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *BillingMapper) PlanChangeToEntity(r *model.PlanChangeRequest) *entity.PlanChangeRequest {
	if r == nil {
		return nil
	}
	return &entity.PlanChangeRequest{
		Id:              r.Id,
		UserId:          r.UserId,
		FromPlanId:      r.FromPlanId,
		ToPlanId:        r.ToPlanId,
		ChangeType:      entity.PlanChangeType(r.ChangeType),
		Status:          entity.PlanChangeStatus(r.Status),
		ProrationAmount: r.ProrationAmount,
		EffectiveDate:   r.EffectiveDate,
		Reason:          r.Reason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (m *BillingMapper) PlanChangeToModel(r *entity.PlanChangeRequest) *model.PlanChangeRequest {
	if r == nil {
		return nil
	}
	return &model.PlanChangeRequest{
		Id:              r.Id,
		UserId:          r.UserId,
		FromPlanId:      r.FromPlanId,
		ToPlanId:        r.ToPlanId,
		ChangeType:      string(r.ChangeType),
		Status:          string(r.Status),
		ProrationAmount: r.ProrationAmount,
		EffectiveDate:   r.EffectiveDate,
		Reason:          r.Reason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (m *BillingMapper) NotificationToEntity(n *model.SubscriptionNotification) *entity.SubscriptionNotification {
	if n == nil {
		return nil
	}
	return &entity.SubscriptionNotification{
		Id:               n.Id,
		UserId:           n.UserId,
		NotificationType: n.NotificationType,
		Title:            n.Title,
		Message:          n.Message,
		Metadata:         map[string]interface{}(n.Metadata),
		IsRead:           n.IsRead,
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
}

func (m *BillingMapper) NotificationToModel(n *entity.SubscriptionNotification) *model.SubscriptionNotification {
	if n == nil {
		return nil
	}
	return &model.SubscriptionNotification{
		Id:               n.Id,
		UserId:           n.UserId,
		NotificationType: n.NotificationType,
		Title:            n.Title,
		Message:          n.Message,
		Metadata:         datatypes.JSONMap(n.Metadata),
		IsRead:           n.IsRead,
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
}
