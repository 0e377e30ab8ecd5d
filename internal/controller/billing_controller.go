// FILE: internal/controller/billing_controller.go
package controller

import (
	"time"

	"allnimall-store-be/internal/pkg/serverutils"
	"allnimall-store-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router)
	GetInvoices(ctx *fiber.Ctx) error
	GetPayments(ctx *fiber.Ctx) error
	RunRecurringBilling(ctx *fiber.Ctx) error
	ResetUsageCounters(ctx *fiber.Ctx) error
}

type billingController struct {
	service service.IBillingService
}

func NewBillingController(service service.IBillingService) IBillingController {
	return &billingController{service: service}
}

func (c *billingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/billing", serverutils.JwtMiddleware)
	h.Get("/invoices", c.GetInvoices)
	h.Get("/payments", c.GetPayments)

	// Sweep triggers for an external scheduler; cmd/sweep drives the same
	// service calls with a distributed lock.
	h.Post("/recurring", c.RunRecurringBilling)
	r.Post("/usage/reset", serverutils.JwtMiddleware, c.ResetUsageCounters)
}

func (c *billingController) GetInvoices(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetInvoices(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoices", res))
}

func (c *billingController) GetPayments(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetPayments(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payments", res))
}

func (c *billingController) RunRecurringBilling(ctx *fiber.Ctx) error {
	res, err := c.service.ProcessRecurringBilling(ctx.Context(), time.Now())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Recurring billing sweep finished", res))
}

func (c *billingController) ResetUsageCounters(ctx *fiber.Ctx) error {
	res, err := c.service.ResetUsageCounters(ctx.Context(), time.Now())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage counters reset", res))
}
