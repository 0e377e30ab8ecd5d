// FILE: internal/service/billing_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/pkg/logger"
	"allnimall-store-be/internal/pkg/mailer"
	"allnimall-store-be/internal/repository/specification"
	"allnimall-store-be/internal/repository/unitofwork"
	"allnimall-store-be/pkg/events"
	pktNats "allnimall-store-be/pkg/nats"
	"allnimall-store-be/pkg/payment"

	"github.com/google/uuid"
)

type IBillingService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	CreateSubscription(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) (*dto.WebhookResult, error)
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID, reason string) error
	GetTransactionStatus(ctx context.Context, orderId string) (*payment.TransactionStatus, error)
	GetInvoices(ctx context.Context, userId uuid.UUID) ([]*dto.InvoiceResponse, error)
	GetPayments(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentResponse, error)

	// Sweeps. Run by the scheduler binary, continue-on-error per item.
	ProcessRecurringBilling(ctx context.Context, now time.Time) (*dto.RecurringSweepResult, error)
	ResetUsageCounters(ctx context.Context, now time.Time) (*dto.UsageResetResult, error)
}

type BillingConfig struct {
	TrialDays       int
	InvoiceDueDays  int
	DefaultCurrency string
}

type billingService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        payment.Gateway
	featureAccess  IFeatureAccessService
	eventPublisher *pktNats.Publisher
	emailService   mailer.IEmailService
	logger         logger.ILogger
	cfg            BillingConfig
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	gateway payment.Gateway,
	featureAccess IFeatureAccessService,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	logger logger.ILogger,
	cfg BillingConfig,
) IBillingService {
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = 14
	}
	if cfg.InvoiceDueDays <= 0 {
		cfg.InvoiceDueDays = 7
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "IDR"
	}
	return &billingService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		featureAccess:  featureAccess,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		logger:         logger,
		cfg:            cfg,
	}
}

// Gateway order ids are "SUB-{subscriptionId}-{unixMillis}" so every checkout
// attempt for the same subscription stays unique on the gateway side.
func makeOrderId(subscriptionId uuid.UUID, at time.Time) string {
	return fmt.Sprintf("SUB-%s-%d", subscriptionId, at.UnixMilli())
}

func makeInvoiceNumber(subscriptionId uuid.UUID, at time.Time) string {
	return fmt.Sprintf("INV-%s-%d", subscriptionId, at.UnixMilli())
}

// parseOrderId recovers the subscription id from an order id.
func parseOrderId(orderId string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(orderId, "SUB-")
	if !ok {
		return uuid.Nil, fmt.Errorf("order id missing SUB prefix: %q", orderId)
	}
	idx := strings.LastIndex(rest, "-")
	if idx <= 0 {
		return uuid.Nil, fmt.Errorf("order id missing timestamp: %q", orderId)
	}
	return uuid.Parse(rest[:idx])
}

func (s *billingService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.PlanRepository().FindAll(ctx,
		specification.ActivePlans{},
		specification.OrderBy{Field: "sort_order", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PlanResponse, len(plans))
	for i, p := range plans {
		res[i] = planToResponse(p)
	}
	return res, nil
}

func (s *billingService) CreateSubscription(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	existing, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user already has an active subscription")
	}

	now := time.Now()
	trialDays := plan.TrialDays
	if trialDays <= 0 {
		trialDays = s.cfg.TrialDays
	}
	trialEnd := now.AddDate(0, 0, trialDays)

	subId := uuid.New()
	sub := &entity.UserSubscription{
		Id:              subId,
		UserId:          userId,
		PlanId:          plan.Id,
		Status:          entity.SubscriptionStatusTrial,
		StartDate:       now,
		TrialEndDate:    &trialEnd,
		NextBillingDate: &trialEnd,
		AutoRenew:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	orderId := makeOrderId(subId, now)
	invoice := &entity.BillingInvoice{
		Id:               uuid.New(),
		UserId:           userId,
		SubscriptionId:   subId,
		InvoiceNumber:    makeInvoiceNumber(subId, now),
		CustomerEmail:    req.Email,
		Amount:           plan.Price,
		Currency:         s.cfg.DefaultCurrency,
		Status:           entity.InvoiceStatusPending,
		DueDate:          now.AddDate(0, 0, s.cfg.InvoiceDueDays),
		PaymentReference: orderId,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}
	if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.initUsageLedger(ctx, uow, userId, plan, now); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// External gateway call stays outside the DB transaction.
	session, err := s.gateway.CreateCheckout(orderId, int64(plan.Price), plan.Id.String(), plan.Name, payment.CustomerDetails{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventSubscriptionCreated, subId, map[string]interface{}{
		"user_id":   userId,
		"plan_id":   plan.Id,
		"plan_name": plan.Name,
		"amount":    plan.Price,
		"currency":  s.cfg.DefaultCurrency,
	})

	return &dto.CheckoutResponse{
		SubscriptionId:  subId,
		InvoiceNumber:   invoice.InvoiceNumber,
		SnapToken:       session.Token,
		SnapRedirectUrl: session.RedirectURL,
	}, nil
}

// initUsageLedger seeds one usage row per feature the plan tracks. Limits come
// from the plan's limit map; reset periods from the matching flag when one
// exists, monthly otherwise.
func (s *billingService) initUsageLedger(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, plan *entity.SubscriptionPlan, now time.Time) error {
	flags, err := uow.FeatureFlagRepository().FindAll(ctx, specification.FlagsForPlan{PlanId: plan.Id})
	if err != nil {
		return err
	}
	periods := make(map[string]entity.UsagePeriod, len(flags))
	for _, flag := range flags {
		if flag.ResetPeriod != "" {
			periods[flag.FeatureName] = flag.ResetPeriod
		}
	}

	for _, feature := range plan.Features {
		existing, err := uow.UsageRepository().FindOne(ctx,
			specification.ByUserID{UserID: userId},
			specification.ByFeature{Name: feature},
		)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		period, ok := periods[feature]
		if !ok {
			period = entity.UsagePeriodMonthly
		}
		usage := &entity.FeatureUsage{
			Id:          uuid.New(),
			UserId:      userId,
			FeatureName: feature,
			UsageCount:  0,
			UsageLimit:  plan.Limits[feature],
			ResetDate:   NextResetDate(now, period),
			UsagePeriod: period,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uow.UsageRepository().Create(ctx, usage); err != nil {
			return err
		}
	}
	return nil
}

func (s *billingService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) (*dto.WebhookResult, error) {
	if !s.gateway.VerifySignature(req.OrderId, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		s.logger.Warn("billing", "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return nil, ErrInvalidSignature
	}

	subId, err := parseOrderId(req.OrderId)
	if err != nil {
		s.logger.Warn("billing", "Webhook with malformed order id", map[string]interface{}{
			"order_id": req.OrderId,
			"error":    err.Error(),
		})
		return &dto.WebhookResult{Success: false, Message: "unrecognized order id"}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Gateway retries are deduplicated on the gateway transaction id.
	if req.TransactionId != "" {
		prev, err := uow.PaymentRepository().FindOne(ctx, specification.Filter("transaction_id", req.TransactionId))
		if err != nil {
			return nil, err
		}
		if prev != nil {
			return &dto.WebhookResult{Success: true, Message: "duplicate notification ignored"}, nil
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		s.logger.Warn("billing", "Webhook for unknown subscription", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return &dto.WebhookResult{Success: false, Message: "subscription not found"}, nil
	}

	invoice, err := s.findInvoiceForOrder(ctx, uow, subId, req.OrderId)
	if err != nil {
		return nil, err
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		if err := s.applySuccessfulPayment(ctx, uow, sub, invoice, req); err != nil {
			return nil, err
		}
	case "pending":
		// Payment not final yet; trial access continues untouched.
		return &dto.WebhookResult{Success: true, Message: "payment pending"}, nil
	case "deny", "cancel", "expire", "failure":
		if err := s.applyFailedPayment(ctx, uow, sub, invoice, req); err != nil {
			return nil, err
		}
	default:
		s.logger.Info("billing", "Webhook with unhandled transaction status", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return &dto.WebhookResult{Success: true, Message: "status ignored"}, nil
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.notifyAfterPayment(ctx, sub, invoice, req)

	return &dto.WebhookResult{Success: true, Message: "processed"}, nil
}

func (s *billingService) findInvoiceForOrder(ctx context.Context, uow unitofwork.UnitOfWork, subId uuid.UUID, orderId string) (*entity.BillingInvoice, error) {
	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.Filter("payment_reference", orderId))
	if err != nil {
		return nil, err
	}
	if invoice != nil {
		return invoice, nil
	}
	// Fall back to the oldest open invoice of the subscription.
	return uow.InvoiceRepository().FindOne(ctx,
		specification.Filter("subscription_id", subId),
		specification.ByStatus{Status: string(entity.InvoiceStatusPending)},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
}

func (s *billingService) applySuccessfulPayment(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.UserSubscription, invoice *entity.BillingInvoice, req *dto.MidtransWebhookRequest) error {
	now := time.Now()

	if invoice != nil {
		invoice.Status = entity.InvoiceStatusPaid
		invoice.PaidAt = &now
		invoice.UpdatedAt = now
		if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
			return err
		}

		pay := &entity.BillingPayment{
			Id:            uuid.New(),
			InvoiceId:     invoice.Id,
			Amount:        invoice.Amount,
			Currency:      invoice.Currency,
			PaymentMethod: req.PaymentType,
			Status:        entity.PaymentStatusSucceeded,
			TransactionId: req.TransactionId,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uow.PaymentRepository().Create(ctx, pay); err != nil {
			return err
		}
	}

	// Cancelled and expired subscriptions stay that way; the money is
	// recorded against the invoice but no access is restored.
	if sub.Status.IsTerminal() {
		s.logger.Warn("billing", "Payment received for terminal subscription", map[string]interface{}{
			"subscription_id": sub.Id,
			"status":          sub.Status,
		})
		return nil
	}

	// The billing anchor is not touched here. Checkout sets the first
	// next_billing_date and the recurring sweep advances it when it cuts
	// the invoice; moving it again on settlement would skip a cycle.
	sub.Status = entity.SubscriptionStatusActive
	sub.UpdatedAt = now
	return uow.SubscriptionRepository().Update(ctx, sub)
}

// advanceBillingDate moves the next billing date forward one cycle from its
// previous value when one exists, so late payments do not shift the anchor.
func advanceBillingDate(sub *entity.UserSubscription, plan *entity.SubscriptionPlan, now time.Time) time.Time {
	base := now
	if sub.NextBillingDate != nil {
		base = *sub.NextBillingDate
	}
	if plan != nil && plan.BillingCycle == entity.BillingCycleYearly {
		return base.AddDate(1, 0, 0)
	}
	return base.AddDate(0, 1, 0)
}

func (s *billingService) applyFailedPayment(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.UserSubscription, invoice *entity.BillingInvoice, req *dto.MidtransWebhookRequest) error {
	now := time.Now()

	if invoice != nil {
		invoice.Status = entity.InvoiceStatusFailed
		invoice.UpdatedAt = now
		if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
			return err
		}

		pay := &entity.BillingPayment{
			Id:            uuid.New(),
			InvoiceId:     invoice.Id,
			Amount:        invoice.Amount,
			Currency:      invoice.Currency,
			PaymentMethod: req.PaymentType,
			Status:        entity.PaymentStatusFailed,
			TransactionId: req.TransactionId,
			FailureReason: req.TransactionStatus,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uow.PaymentRepository().Create(ctx, pay); err != nil {
			return err
		}
	}

	if sub.Status.IsTerminal() {
		return nil
	}

	sub.Status = entity.SubscriptionStatusPastDue
	sub.UpdatedAt = now
	return uow.SubscriptionRepository().Update(ctx, sub)
}

// notifyAfterPayment sends the receipt mail and bus event. Both are
// best-effort; the webhook already committed.
func (s *billingService) notifyAfterPayment(ctx context.Context, sub *entity.UserSubscription, invoice *entity.BillingInvoice, req *dto.MidtransWebhookRequest) {
	switch req.TransactionStatus {
	case "capture", "settlement":
		s.publishEvent(ctx, events.EventSubscriptionActivated, sub.Id, map[string]interface{}{
			"user_id":        sub.UserId,
			"transaction_id": req.TransactionId,
		})
		if s.emailService != nil && invoice != nil && invoice.CustomerEmail != "" {
			if err := s.emailService.SendPaymentReceipt(invoice.CustomerEmail, invoice.InvoiceNumber, "", invoice.Amount, invoice.Currency); err != nil {
				s.logger.Warn("billing", "Failed to send receipt", map[string]interface{}{
					"invoice": invoice.InvoiceNumber,
					"error":   err.Error(),
				})
			}
		}
	case "deny", "cancel", "expire", "failure":
		s.publishEvent(ctx, events.EventSubscriptionPastDue, sub.Id, map[string]interface{}{
			"user_id":        sub.UserId,
			"transaction_id": req.TransactionId,
			"reason":         req.TransactionStatus,
		})
	}
}

func (s *billingService) publishEvent(ctx context.Context, eventType string, subId uuid.UUID, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewSubscriptionEvent(eventType, subId.String(), data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("billing", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *billingService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	sub, err := s.featureAccess.ActiveSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}

	res := &dto.SubscriptionStatusResponse{
		SubscriptionId:  sub.Id,
		PlanId:          sub.PlanId,
		Status:          string(sub.Status),
		IsActive:        sub.Status == entity.SubscriptionStatusActive || sub.Status == entity.SubscriptionStatusTrial,
		StartDate:       sub.StartDate,
		NextBillingDate: sub.NextBillingDate,
		TrialEndDate:    sub.TrialEndDate,
		AutoRenew:       sub.AutoRenew,
	}
	if plan != nil {
		res.PlanName = plan.Name
	}
	return res, nil
}

// CancelSubscription is idempotent: cancelling an already-cancelled
// subscription is a no-op.
func (s *billingService) CancelSubscription(ctx context.Context, userId uuid.UUID, reason string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return err
	}

	var target *entity.UserSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusCancelled {
			return nil
		}
		if !sub.Status.IsTerminal() {
			target = sub
			break
		}
	}
	if target == nil {
		return ErrSubscriptionNotFound
	}

	now := time.Now()
	target.Status = entity.SubscriptionStatusCancelled
	target.AutoRenew = false
	target.CancelledAt = &now
	target.CancellationReason = reason
	if target.EndDate == nil {
		// Access runs until the end of the paid period.
		end := now
		if target.NextBillingDate != nil && target.NextBillingDate.After(now) {
			end = *target.NextBillingDate
		}
		target.EndDate = &end
	}
	target.UpdatedAt = now

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().Update(ctx, target); err != nil {
		return err
	}
	// Usage rows go with the subscription (soft delete).
	if err := uow.UsageRepository().DeleteByUserId(ctx, userId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishEvent(ctx, events.EventSubscriptionCancelled, target.Id, map[string]interface{}{
		"user_id": userId,
		"reason":  reason,
	})
	return nil
}

func (s *billingService) GetTransactionStatus(ctx context.Context, orderId string) (*payment.TransactionStatus, error) {
	return s.gateway.GetTransactionStatus(orderId)
}

func (s *billingService) GetInvoices(ctx context.Context, userId uuid.UUID) ([]*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoices, err := uow.InvoiceRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = &dto.InvoiceResponse{
			Id:            inv.Id,
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        inv.Amount,
			Currency:      inv.Currency,
			Status:        string(inv.Status),
			DueDate:       inv.DueDate,
			PaidAt:        inv.PaidAt,
			CreatedAt:     inv.CreatedAt,
		}
	}
	return res, nil
}

func (s *billingService) GetPayments(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	invoices, err := uow.InvoiceRepository().FindAll(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}

	var res []*dto.PaymentResponse
	for _, inv := range invoices {
		payments, err := uow.PaymentRepository().FindAll(ctx,
			specification.Filter("invoice_id", inv.Id),
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			res = append(res, &dto.PaymentResponse{
				Id:            p.Id,
				InvoiceId:     p.InvoiceId,
				Amount:        p.Amount,
				Currency:      p.Currency,
				Status:        string(p.Status),
				PaymentMethod: p.PaymentMethod,
				TransactionId: p.TransactionId,
				CreatedAt:     p.CreatedAt,
			})
		}
	}
	return res, nil
}

// ProcessRecurringBilling creates the next invoice for every subscription
// whose billing date has passed. One bad subscription never aborts the sweep.
func (s *billingService) ProcessRecurringBilling(ctx context.Context, now time.Time) (*dto.RecurringSweepResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	due, err := uow.SubscriptionRepository().FindAll(ctx, specification.DueForBilling{Now: now})
	if err != nil {
		return nil, err
	}

	result := &dto.RecurringSweepResult{Processed: len(due)}
	for _, sub := range due {
		if err := s.billOne(ctx, sub, now); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", sub.Id, err))
			s.logger.Error("billing", "Recurring billing failed for subscription", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
			continue
		}
		result.Succeeded++
	}

	s.logger.Info("billing", "Recurring billing sweep finished", map[string]interface{}{
		"processed": result.Processed,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})
	return result, nil
}

func (s *billingService) billOne(ctx context.Context, sub *entity.UserSubscription, now time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}

	// Reuse the customer email from the most recent invoice.
	lastInvoice, err := uow.InvoiceRepository().FindOne(ctx,
		specification.Filter("subscription_id", sub.Id),
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return err
	}
	email := ""
	if lastInvoice != nil {
		email = lastInvoice.CustomerEmail
	}

	orderId := makeOrderId(sub.Id, now)
	invoice := &entity.BillingInvoice{
		Id:               uuid.New(),
		UserId:           sub.UserId,
		SubscriptionId:   sub.Id,
		InvoiceNumber:    makeInvoiceNumber(sub.Id, now),
		CustomerEmail:    email,
		Amount:           plan.Price,
		Currency:         s.cfg.DefaultCurrency,
		Status:           entity.InvoiceStatusPending,
		DueDate:          now.AddDate(0, 0, s.cfg.InvoiceDueDays),
		PaymentReference: orderId,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
		return err
	}

	next := advanceBillingDate(sub, plan, now)
	sub.NextBillingDate = &next
	sub.UpdatedAt = now
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishEvent(ctx, events.EventPaymentRecorded, sub.Id, map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"amount":         invoice.Amount,
		"due_date":       invoice.DueDate,
	})
	return nil
}

func (s *billingService) ResetUsageCounters(ctx context.Context, now time.Time) (*dto.UsageResetResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.UsageRepository().ResetDue(ctx, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info("billing", "Usage reset sweep finished", map[string]interface{}{
		"reset_count": count,
	})
	return &dto.UsageResetResult{ResetCount: count}, nil
}
