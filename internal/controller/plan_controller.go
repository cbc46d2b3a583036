// FILE: internal/controller/plan_controller.go
// Controller for the owner's plan catalog
package controller

import (
	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/pkg/validator"
	"gymflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PlanController interface {
	RegisterRoutes(api fiber.Router, ownerAuth fiber.Handler)
}

type planController struct {
	planService service.PlanService
	validator   *validator.Validator
}

func NewPlanController(planService service.PlanService, v *validator.Validator) PlanController {
	return &planController{
		planService: planService,
		validator:   v,
	}
}

func (c *planController) RegisterRoutes(api fiber.Router, ownerAuth fiber.Handler) {
	plans := api.Group("/plans", ownerAuth)
	plans.Get("/", c.ListPlans)
	plans.Post("/", c.CreatePlan)
	plans.Get("/:id", c.GetPlan)
	plans.Put("/:id", c.UpdatePlan)
	plans.Patch("/:id/toggle", c.TogglePlan)
	plans.Delete("/:id", c.DeletePlan)
}

// ListPlans returns every plan of the gym with its live member count
// @Summary List plans
// @Tags Plans
// @Security BearerAuth
// @Produce json
// @Success 200 {object} []dto.PlanResponse
// @Router /api/plans [get]
func (c *planController) ListPlans(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	plans, err := c.planService.ListPlans(ctx.UserContext(), ownerId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", plans))
}

// CreatePlan
// @Summary Create a plan
// @Tags Plans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PlanRequest true "Plan"
// @Success 201 {object} dto.PlanResponse
// @Router /api/plans [post]
func (c *planController) CreatePlan(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var req dto.PlanRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	plan, err := c.planService.CreatePlan(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return respond(ctx, fiber.StatusCreated, "Plan created", plan, nil)
}

func (c *planController) GetPlan(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	planId, err := serverutils.ParamUUID(ctx, "id", "Plan")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	plan, err := c.planService.GetPlan(ctx.UserContext(), ownerId, planId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan retrieved", plan))
}

// UpdatePlan replaces the plan, feature list included
// @Summary Update a plan
// @Tags Plans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param request body dto.PlanRequest true "Plan"
// @Success 200 {object} dto.PlanResponse
// @Router /api/plans/{id} [put]
func (c *planController) UpdatePlan(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	planId, err := serverutils.ParamUUID(ctx, "id", "Plan")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var req dto.PlanRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	plan, err := c.planService.UpdatePlan(ctx.UserContext(), ownerId, planId, &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan updated", plan))
}

func (c *planController) TogglePlan(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	planId, err := serverutils.ParamUUID(ctx, "id", "Plan")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.planService.TogglePlanActive(ctx.UserContext(), ownerId, planId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan status updated", res))
}

func (c *planController) DeletePlan(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	planId, err := serverutils.ParamUUID(ctx, "id", "Plan")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	if err := c.planService.DeletePlan(ctx.UserContext(), ownerId, planId); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Plan deleted", nil))
}
