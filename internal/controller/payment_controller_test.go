// FILE: internal/controller/payment_controller_test.go
package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/service"
	"allnimall-store-be/pkg/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubBillingService struct {
	notifyErr error
	notifyRes *dto.WebhookResult
}

func (s *stubBillingService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	return nil, nil
}

func (s *stubBillingService) CreateSubscription(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	return nil, nil
}

func (s *stubBillingService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) (*dto.WebhookResult, error) {
	return s.notifyRes, s.notifyErr
}

func (s *stubBillingService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	return nil, nil
}

func (s *stubBillingService) CancelSubscription(ctx context.Context, userId uuid.UUID, reason string) error {
	return nil
}

func (s *stubBillingService) GetTransactionStatus(ctx context.Context, orderId string) (*payment.TransactionStatus, error) {
	return nil, nil
}

func (s *stubBillingService) GetInvoices(ctx context.Context, userId uuid.UUID) ([]*dto.InvoiceResponse, error) {
	return nil, nil
}

func (s *stubBillingService) GetPayments(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentResponse, error) {
	return nil, nil
}

func (s *stubBillingService) ProcessRecurringBilling(ctx context.Context, now time.Time) (*dto.RecurringSweepResult, error) {
	return nil, nil
}

func (s *stubBillingService) ResetUsageCounters(ctx context.Context, now time.Time) (*dto.UsageResetResult, error) {
	return nil, nil
}

func newWebhookApp(stub *stubBillingService) *fiber.App {
	app := fiber.New()
	NewPaymentController(stub).RegisterRoutes(app.Group("/api"))
	return app
}

func TestWebhookInvalidSignatureEnvelope(t *testing.T) {
	app := newWebhookApp(&stubBillingService{notifyErr: service.ErrInvalidSignature})

	body := `{"order_id":"SUB-x-1","transaction_status":"settlement","signature_key":"forged"}`
	req := httptest.NewRequest("POST", "/api/payment/midtrans/notification", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	// Gateways get a success=false JSON body, not a bare status line.
	raw, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(raw, &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Message)
}

func TestWebhookProcessingResultPassthrough(t *testing.T) {
	app := newWebhookApp(&stubBillingService{notifyRes: &dto.WebhookResult{Success: true, Message: "ok"}})

	body := `{"order_id":"SUB-x-1","transaction_status":"settlement","signature_key":"valid"}`
	req := httptest.NewRequest("POST", "/api/payment/midtrans/notification", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var result dto.WebhookResult
	raw, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, &result))
	assert.True(t, result.Success)
}
