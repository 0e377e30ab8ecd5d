package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/repository/contract"
	"allnimall-store-be/internal/repository/specification"
	"allnimall-store-be/internal/repository/unitofwork"
	"allnimall-store-be/pkg/payment"

	"github.com/google/uuid"
)

// In-memory unit of work shared by the service tests. The fake repositories
// interpret the specification types the services actually use.

type fakeStore struct {
	mu            sync.Mutex // guards notifications; the consumer writes them from its own goroutine
	plans         []*entity.SubscriptionPlan
	subs          []*entity.UserSubscription
	usages        []*entity.FeatureUsage
	flags         []*entity.FeatureFlag
	invoices      []*entity.BillingInvoice
	payments      []*entity.BillingPayment
	changes       []*entity.PlanChangeRequest
	notifications []*entity.SubscriptionNotification
}

func (s *fakeStore) notificationSnapshot() []*entity.SubscriptionNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.SubscriptionNotification(nil), s.notifications...)
}

type fakeUowFactory struct {
	store *fakeStore
}

func newFakeFactory() (*fakeUowFactory, *fakeStore) {
	store := &fakeStore{}
	return &fakeUowFactory{store: store}, store
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) PlanRepository() contract.PlanRepository {
	return &fakePlanRepo{store: u.store}
}
func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubRepo{store: u.store}
}
func (u *fakeUow) UsageRepository() contract.UsageRepository {
	return &fakeUsageRepo{store: u.store}
}
func (u *fakeUow) FeatureFlagRepository() contract.FeatureFlagRepository {
	return &fakeFlagRepo{store: u.store}
}
func (u *fakeUow) InvoiceRepository() contract.InvoiceRepository {
	return &fakeInvoiceRepo{store: u.store}
}
func (u *fakeUow) PaymentRepository() contract.PaymentRepository {
	return &fakePaymentRepo{store: u.store}
}
func (u *fakeUow) PlanChangeRepository() contract.PlanChangeRepository {
	return &fakePlanChangeRepo{store: u.store}
}
func (u *fakeUow) NotificationRepository() contract.NotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

// --- plan repo ---

type fakePlanRepo struct{ store *fakeStore }

func (r *fakePlanRepo) Create(ctx context.Context, plan *entity.SubscriptionPlan) error {
	r.store.plans = append(r.store.plans, plan)
	return nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *entity.SubscriptionPlan) error {
	for i, p := range r.store.plans {
		if p.Id == plan.Id {
			r.store.plans[i] = plan
		}
	}
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakePlanRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	for _, p := range r.store.plans {
		if planMatches(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var out []*entity.SubscriptionPlan
	for _, p := range r.store.plans {
		if planMatches(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func planMatches(p *entity.SubscriptionPlan, specs []specification.Specification) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if p.Id != v.ID {
				return false
			}
		case specification.ActivePlans:
			if !p.IsActive {
				return false
			}
		}
	}
	return true
}

// --- subscription repo ---

type fakeSubRepo struct{ store *fakeStore }

func (r *fakeSubRepo) Create(ctx context.Context, sub *entity.UserSubscription) error {
	r.store.subs = append(r.store.subs, sub)
	return nil
}

func (r *fakeSubRepo) Update(ctx context.Context, sub *entity.UserSubscription) error {
	for i, s := range r.store.subs {
		if s.Id == sub.Id {
			r.store.subs[i] = sub
		}
	}
	return nil
}

func (r *fakeSubRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeSubRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	for _, s := range r.store.subs {
		if subMatches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	var out []*entity.UserSubscription
	for _, s := range r.store.subs {
		if subMatches(s, specs) {
			out = append(out, s)
		}
	}
	// Newest first, as the services expect from OrderBy created_at DESC.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeSubRepo) CountActiveSubscribers(ctx context.Context) (int, error) {
	count := 0
	for _, s := range r.store.subs {
		if s.Status == entity.SubscriptionStatusActive {
			count++
		}
	}
	return count, nil
}

func subMatches(s *entity.UserSubscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.ByUserID:
			if s.UserId != v.UserID {
				return false
			}
		case specification.ByStatus:
			if string(s.Status) != v.Status {
				return false
			}
		case specification.DueForBilling:
			if s.Status != entity.SubscriptionStatusActive || !s.AutoRenew {
				return false
			}
			if s.NextBillingDate == nil || s.NextBillingDate.After(v.Now) {
				return false
			}
		}
	}
	return true
}

// --- usage repo ---

type fakeUsageRepo struct{ store *fakeStore }

func (r *fakeUsageRepo) Create(ctx context.Context, usage *entity.FeatureUsage) error {
	r.store.usages = append(r.store.usages, usage)
	return nil
}

func (r *fakeUsageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureUsage, error) {
	for _, u := range r.store.usages {
		if usageMatches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUsageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureUsage, error) {
	var out []*entity.FeatureUsage
	for _, u := range r.store.usages {
		if usageMatches(u, specs) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	kept := r.store.usages[:0]
	for _, u := range r.store.usages {
		if u.UserId != userId {
			kept = append(kept, u)
		}
	}
	r.store.usages = kept
	return nil
}

func (r *fakeUsageRepo) IncrementWithinLimit(ctx context.Context, userId uuid.UUID, featureName string, by int) (bool, error) {
	for _, u := range r.store.usages {
		if u.UserId == userId && u.FeatureName == featureName {
			if u.UsageLimit > 0 && u.UsageCount+by > u.UsageLimit {
				return false, nil
			}
			u.UsageCount += by
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUsageRepo) ResetDue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	for _, u := range r.store.usages {
		if !u.ResetDate.After(now) {
			u.UsageCount = 0
			u.ResetDate = NextResetDate(u.ResetDate, u.UsagePeriod)
			count++
		}
	}
	return count, nil
}

func usageMatches(u *entity.FeatureUsage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByUserID:
			if u.UserId != v.UserID {
				return false
			}
		case specification.ByFeature:
			if u.FeatureName != v.Name {
				return false
			}
		}
	}
	return true
}

// --- flag repo ---

type fakeFlagRepo struct{ store *fakeStore }

func (r *fakeFlagRepo) Create(ctx context.Context, flag *entity.FeatureFlag) error {
	r.store.flags = append(r.store.flags, flag)
	return nil
}

func (r *fakeFlagRepo) Update(ctx context.Context, flag *entity.FeatureFlag) error { return nil }

func (r *fakeFlagRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureFlag, error) {
	for _, f := range r.store.flags {
		if flagMatches(f, specs) {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFlagRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureFlag, error) {
	var out []*entity.FeatureFlag
	for _, f := range r.store.flags {
		if flagMatches(f, specs) {
			out = append(out, f)
		}
	}
	return out, nil
}

func flagMatches(f *entity.FeatureFlag, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByFeature:
			if f.FeatureName != v.Name {
				return false
			}
		case specification.FlagsForPlan:
			if v.PlanId == nil {
				continue
			}
			planId, ok := v.PlanId.(uuid.UUID)
			if !ok {
				continue
			}
			if f.PlanId != nil && *f.PlanId != planId {
				return false
			}
		}
	}
	return true
}

// --- invoice repo ---

type fakeInvoiceRepo struct{ store *fakeStore }

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.BillingInvoice) error {
	r.store.invoices = append(r.store.invoices, invoice)
	return nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, invoice *entity.BillingInvoice) error {
	for i, inv := range r.store.invoices {
		if inv.Id == invoice.Id {
			r.store.invoices[i] = invoice
		}
	}
	return nil
}

func (r *fakeInvoiceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingInvoice, error) {
	for _, inv := range r.store.invoices {
		if invoiceMatches(inv, specs) {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingInvoice, error) {
	var out []*entity.BillingInvoice
	for _, inv := range r.store.invoices {
		if invoiceMatches(inv, specs) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func invoiceMatches(inv *entity.BillingInvoice, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if inv.Id != v.ID {
				return false
			}
		case specification.ByUserID:
			if inv.UserId != v.UserID {
				return false
			}
		case specification.ByStatus:
			if string(inv.Status) != v.Status {
				return false
			}
		case specification.FilterBy:
			switch v.Field {
			case "payment_reference":
				if inv.PaymentReference != v.Value.(string) {
					return false
				}
			case "subscription_id":
				if inv.SubscriptionId != v.Value.(uuid.UUID) {
					return false
				}
			}
		}
	}
	return true
}

// --- payment repo ---

type fakePaymentRepo struct{ store *fakeStore }

func (r *fakePaymentRepo) Create(ctx context.Context, pay *entity.BillingPayment) error {
	r.store.payments = append(r.store.payments, pay)
	return nil
}

func (r *fakePaymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingPayment, error) {
	for _, p := range r.store.payments {
		if paymentMatches(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingPayment, error) {
	var out []*entity.BillingPayment
	for _, p := range r.store.payments {
		if paymentMatches(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func paymentMatches(p *entity.BillingPayment, specs []specification.Specification) bool {
	for _, spec := range specs {
		if v, ok := spec.(specification.FilterBy); ok {
			switch v.Field {
			case "transaction_id":
				if p.TransactionId != v.Value.(string) {
					return false
				}
			case "invoice_id":
				if p.InvoiceId != v.Value.(uuid.UUID) {
					return false
				}
			}
		}
	}
	return true
}

// --- plan change repo ---

type fakePlanChangeRepo struct{ store *fakeStore }

func (r *fakePlanChangeRepo) Create(ctx context.Context, req *entity.PlanChangeRequest) error {
	r.store.changes = append(r.store.changes, req)
	return nil
}

func (r *fakePlanChangeRepo) Update(ctx context.Context, req *entity.PlanChangeRequest) error { return nil }

func (r *fakePlanChangeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlanChangeRequest, error) {
	if len(r.store.changes) == 0 {
		return nil, nil
	}
	return r.store.changes[0], nil
}

func (r *fakePlanChangeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlanChangeRequest, error) {
	return r.store.changes, nil
}

// --- notification repo ---

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.SubscriptionNotification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionNotification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.SubscriptionNotification
	for _, n := range r.store.notifications {
		if notificationMatches(n, specs) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for _, n := range r.store.notifications {
		if n.Id == id {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func notificationMatches(n *entity.SubscriptionNotification, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if n.Id != v.ID {
				return false
			}
		case specification.ByUserID:
			if n.UserId != v.UserID {
				return false
			}
		case specification.FilterBy:
			if v.Field == "is_read" && n.IsRead != v.Value.(bool) {
				return false
			}
		}
	}
	return true
}

// --- gateway and logger fakes ---

type fakeGateway struct {
	serverKey      string
	checkoutCalls  int
	lastOrderId    string
	failCheckout   bool
	rejectAllSigs  bool
	lastStatusResp *payment.TransactionStatus
}

func (g *fakeGateway) CreateCheckout(orderId string, grossAmount int64, itemId, itemName string, customer payment.CustomerDetails) (*payment.CheckoutSession, error) {
	g.checkoutCalls++
	g.lastOrderId = orderId
	if g.failCheckout {
		return nil, errGatewayDown
	}
	return &payment.CheckoutSession{Token: "snap-token", RedirectURL: "https://example.test/pay"}, nil
}

func (g *fakeGateway) GetTransactionStatus(orderId string) (*payment.TransactionStatus, error) {
	if g.lastStatusResp != nil {
		return g.lastStatusResp, nil
	}
	return &payment.TransactionStatus{OrderId: orderId, TransactionStatus: "settlement"}, nil
}

func (g *fakeGateway) VerifySignature(orderId, statusCode, grossAmount, signatureKey string) bool {
	if g.rejectAllSigs {
		return false
	}
	return signatureKey == "valid-signature"
}

var errGatewayDown = &gatewayError{}

type gatewayError struct{}

func (e *gatewayError) Error() string { return "gateway unavailable" }

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeMailer struct {
	receipts []string
	failures []string
}

func (m *fakeMailer) SendPaymentReceipt(toEmail, invoiceNumber, planName string, amount float64, currency string) error {
	m.receipts = append(m.receipts, toEmail)
	return nil
}

func (m *fakeMailer) SendPaymentFailed(toEmail, planName string) error {
	m.failures = append(m.failures, toEmail)
	return nil
}

type capturedPublisher struct {
	payloads [][]byte
}

func (p *capturedPublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}
