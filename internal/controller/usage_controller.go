// FILE: internal/controller/usage_controller.go
package controller

import (
	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/pkg/serverutils"
	"allnimall-store-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUsageController interface {
	RegisterRoutes(r fiber.Router)
	TrackUsage(ctx *fiber.Ctx) error
	GetUsageLimit(ctx *fiber.Ctx) error
	GetUsageSummary(ctx *fiber.Ctx) error
	CheckFeatureAccess(ctx *fiber.Ctx) error
	ValidateAction(ctx *fiber.Ctx) error
	ValidateMultiple(ctx *fiber.Ctx) error
	CheckMultipleFeatures(ctx *fiber.Ctx) error
	GetUsageReport(ctx *fiber.Ctx) error
	GetNotifications(ctx *fiber.Ctx) error
	MarkNotificationRead(ctx *fiber.Ctx) error
}

type usageController struct {
	usage         service.IUsageService
	validation    service.IValidationService
	featureAccess service.IFeatureAccessService
}

func NewUsageController(usage service.IUsageService, validation service.IValidationService, featureAccess service.IFeatureAccessService) IUsageController {
	return &usageController{
		usage:         usage,
		validation:    validation,
		featureAccess: featureAccess,
	}
}

func (c *usageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/usage", serverutils.JwtMiddleware)
	h.Post("/track", c.TrackUsage)
	h.Get("/summary", c.GetUsageSummary)
	h.Get("/:feature_name", c.GetUsageLimit)
	h.Get("/:feature_name/access", c.CheckFeatureAccess)

	v := r.Group("/validation", serverutils.JwtMiddleware)
	v.Post("/action", c.ValidateAction)
	v.Post("/actions", c.ValidateMultiple)
	v.Post("/features", c.CheckMultipleFeatures)
	v.Get("/report", c.GetUsageReport)

	n := r.Group("/notifications", serverutils.JwtMiddleware)
	n.Get("/", c.GetNotifications)
	n.Post("/:notification_id/read", c.MarkNotificationRead)
}

func (c *usageController) userId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *usageController) TrackUsage(ctx *fiber.Ctx) error {
	var req dto.TrackUsageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.usage.TrackUsage(ctx.Context(), c.userId(ctx), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage tracked", res))
}

func (c *usageController) GetUsageLimit(ctx *fiber.Ctx) error {
	featureName := ctx.Params("feature_name")

	res, err := c.usage.GetUsageLimit(ctx.Context(), c.userId(ctx), featureName)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "no usage record for feature"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage limit", res))
}

func (c *usageController) GetUsageSummary(ctx *fiber.Ctx) error {
	res, err := c.usage.GetUsageSummary(ctx.Context(), c.userId(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage summary", res))
}

func (c *usageController) CheckFeatureAccess(ctx *fiber.Ctx) error {
	featureName := ctx.Params("feature_name")

	res, err := c.featureAccess.CheckFeatureAccess(ctx.Context(), c.userId(ctx), featureName)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Feature access", res))
}

func (c *usageController) ValidateAction(ctx *fiber.Ctx) error {
	var req dto.ValidateActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.validation.ValidateAction(ctx.Context(), c.userId(ctx), req.FeatureName, req.Count)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Validation result", res))
}

func (c *usageController) ValidateMultiple(ctx *fiber.Ctx) error {
	var req dto.ValidateMultipleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.validation.ValidateMultipleActions(ctx.Context(), c.userId(ctx), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Validation results", res))
}

func (c *usageController) CheckMultipleFeatures(ctx *fiber.Ctx) error {
	var req dto.CheckFeaturesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.featureAccess.CheckMultipleFeatures(ctx.Context(), c.userId(ctx), req.Features)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Feature access", res))
}

func (c *usageController) GetUsageReport(ctx *fiber.Ctx) error {
	res, err := c.validation.GetUsageReport(ctx.Context(), c.userId(ctx))
	if err != nil {
		if err == service.ErrSubscriptionNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "no active subscription"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage report", res))
}

func (c *usageController) GetNotifications(ctx *fiber.Ctx) error {
	unreadOnly := ctx.QueryBool("unread_only", false)

	res, err := c.usage.GetNotifications(ctx.Context(), c.userId(ctx), unreadOnly)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Notifications", res))
}

func (c *usageController) MarkNotificationRead(ctx *fiber.Ctx) error {
	notificationId, err := uuid.Parse(ctx.Params("notification_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid notification_id format"))
	}

	if err := c.usage.MarkNotificationRead(ctx.Context(), c.userId(ctx), notificationId); err != nil {
		if err == service.ErrNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "notification not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}
