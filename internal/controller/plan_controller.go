// FILE: internal/controller/plan_controller.go
package controller

import (
	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/pkg/serverutils"
	"allnimall-store-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	GetRestrictions(ctx *fiber.Ctx) error
	GetFeatureMapping(ctx *fiber.Ctx) error
	GetRecommended(ctx *fiber.Ctx) error
	CheckUpgrade(ctx *fiber.Ctx) error
	RequestChange(ctx *fiber.Ctx) error
}

type planController struct {
	billing       service.IBillingService
	validation    service.IValidationService
	featureAccess service.IFeatureAccessService
}

func NewPlanController(billing service.IBillingService, validation service.IValidationService, featureAccess service.IFeatureAccessService) IPlanController {
	return &planController{
		billing:       billing,
		validation:    validation,
		featureAccess: featureAccess,
	}
}

func (c *planController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/plans")
	h.Get("/", c.GetPlans)
	h.Get("/:plan_id/restrictions", c.GetRestrictions)
	h.Get("/:plan_id/features", c.GetFeatureMapping)

	// Protected Routes
	h.Get("/recommended", serverutils.JwtMiddleware, c.GetRecommended)
	h.Get("/:plan_id/upgrade-check", serverutils.JwtMiddleware, c.CheckUpgrade)
	h.Post("/change-request", serverutils.JwtMiddleware, c.RequestChange)
}

func (c *planController) GetPlans(ctx *fiber.Ctx) error {
	res, err := c.billing.GetPlans(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", res))
}

func (c *planController) GetRestrictions(ctx *fiber.Ctx) error {
	planId, err := uuid.Parse(ctx.Params("plan_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid plan_id format"))
	}

	res, err := c.validation.GetPlanRestrictions(ctx.Context(), planId)
	if err != nil {
		if err == service.ErrPlanNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan restrictions", res))
}

func (c *planController) GetFeatureMapping(ctx *fiber.Ctx) error {
	planId, err := uuid.Parse(ctx.Params("plan_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid plan_id format"))
	}

	res, err := c.featureAccess.GetPlanFeatureMapping(ctx.Context(), planId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan features", res))
}

func (c *planController) GetRecommended(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.validation.GetRecommendedPlan(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Recommended plan", res))
}

func (c *planController) CheckUpgrade(ctx *fiber.Ctx) error {
	planId, err := uuid.Parse(ctx.Params("plan_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid plan_id format"))
	}

	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.validation.CanUpgradeToPlan(ctx.Context(), userId, planId)
	if err != nil {
		if err == service.ErrPlanNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Upgrade check", res))
}

func (c *planController) RequestChange(ctx *fiber.Ctx) error {
	var req dto.PlanChangeRequestCreate
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.validation.CreatePlanChangeRequest(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrSubscriptionNotFound || err == service.ErrPlanNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan change requested", res))
}
