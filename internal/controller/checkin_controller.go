// FILE: internal/controller/checkin_controller.go
package controller

import (
	"strings"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/pkg/validator"
	"gymflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICheckinController interface {
	RegisterRoutes(api fiber.Router, ownerAuth, memberAuth fiber.Handler)
}

type checkinController struct {
	checkinService service.CheckinService
	validator      *validator.Validator
}

func NewCheckinController(checkinService service.CheckinService, v *validator.Validator) ICheckinController {
	return &checkinController{checkinService: checkinService, validator: v}
}

func (c *checkinController) RegisterRoutes(api fiber.Router, ownerAuth, memberAuth fiber.Handler) {
	api.Post("/checkins", ownerAuth, c.DeskCheckin)
	api.Get("/checkins", ownerAuth, c.ListCheckins)
	api.Post("/me/checkin", memberAuth, c.SelfCheckin)
}

// DeskCheckin evaluates a member at the front desk. Admitted is 200, rejected is 403; both are
// recorded.
// @Summary Check a member in
// @Tags Checkins
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckinRequest true "Member"
// @Success 200 {object} dto.CheckinResponse
// @Failure 403 {object} dto.CheckinResponse
// @Router /api/checkins [post]
func (c *checkinController) DeskCheckin(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var req dto.CheckinRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	// A malformed card id cannot match anyone; it is recorded as member_not_found under the nil id.
	memberId, err := uuid.Parse(strings.TrimSpace(req.MemberId))
	if err != nil {
		memberId = uuid.Nil
	}

	return c.checkIn(ctx, ownerId, memberId)
}

func (c *checkinController) SelfCheckin(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	memberId, err := serverutils.MemberIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	return c.checkIn(ctx, ownerId, memberId)
}

func (c *checkinController) checkIn(ctx *fiber.Ctx, ownerId, memberId uuid.UUID) error {
	res, err := c.checkinService.CheckIn(ctx.UserContext(), ownerId, memberId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	if !res.Admitted {
		return ctx.Status(fiber.StatusForbidden).JSON(&serverutils.BaseResponse[*dto.CheckinResponse]{
			Success:   false,
			Code:      fiber.StatusForbidden,
			Message:   "Check-in rejected",
			ErrorCode: res.Reason,
			Data:      res,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Check-in successful", res))
}

func (c *checkinController) ListCheckins(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	filter := dto.CheckinListFilter{
		MemberId: ctx.Query("memberId"),
		Status:   ctx.Query("status"),
	}
	if err := c.validator.Validate(&filter); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	page, err := pageRequest(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.checkinService.ListCheckins(ctx.UserContext(), ownerId, filter, page)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Check-ins retrieved", res))
}
