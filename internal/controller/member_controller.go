// FILE: internal/controller/member_controller.go
package controller

import (
	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/pkg/validator"
	"gymflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMemberController interface {
	RegisterRoutes(api fiber.Router, ownerAuth fiber.Handler)
}

type memberController struct {
	memberService  service.MemberService
	renewalService service.RenewalService
	validator      *validator.Validator
}

func NewMemberController(memberService service.MemberService, renewalService service.RenewalService, v *validator.Validator) IMemberController {
	return &memberController{
		memberService:  memberService,
		renewalService: renewalService,
		validator:      v,
	}
}

func (c *memberController) RegisterRoutes(api fiber.Router, ownerAuth fiber.Handler) {
	members := api.Group("/members", ownerAuth)
	members.Get("/", c.ListMembers)
	members.Post("/", c.RegisterMember)
	members.Post("/reminders", c.SendReminders)
	members.Get("/:id", c.GetMember)
	members.Post("/:id/renew", c.Renew)
	members.Get("/:id/renewals", c.RenewalHistory)
	members.Post("/:id/suspend", c.Suspend)
	members.Post("/:id/reinstate", c.Reinstate)

	api.Get("/dashboard", ownerAuth, c.Dashboard)
}

// ListMembers
// @Summary List members
// @Description Status filter is evaluated against each member's current period at request time
// @Tags Members
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, email or phone"
// @Param membershipType query string false "Plan name or legacy tag"
// @Param membershipStatus query string false "active, expired or suspended"
// @Param gender query string false "male, female or other"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.PaginatedResponse[dto.MemberResponse]
// @Router /api/members [get]
func (c *memberController) ListMembers(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	filter := dto.MemberListFilter{
		Search:           ctx.Query("search"),
		MembershipType:   ctx.Query("membershipType"),
		MembershipStatus: ctx.Query("membershipStatus"),
		Gender:           ctx.Query("gender"),
	}
	if err := c.validator.Validate(&filter); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	page, err := pageRequest(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.memberService.ListMembers(ctx.UserContext(), ownerId, filter, page)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Members retrieved", res))
}

// RegisterMember creates the member and its first membership period
// @Summary Register a member
// @Tags Members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterMemberRequest true "Member"
// @Success 201 {object} dto.RegisterMemberResponse
// @Router /api/members [post]
func (c *memberController) RegisterMember(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var req dto.RegisterMemberRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, warnings, err := c.memberService.RegisterMember(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return respond(ctx, fiber.StatusCreated, "Member registered", res, warnings)
}

func (c *memberController) GetMember(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	memberId, err := serverutils.ParamUUID(ctx, "id", "Member")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.memberService.GetMember(ctx.UserContext(), ownerId, memberId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Member retrieved", res))
}

// Renew
// @Summary Renew a membership
// @Tags Members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body dto.RenewMembershipRequest true "Renewal"
// @Success 201 {object} dto.RenewMembershipResponse
// @Router /api/members/{id}/renew [post]
func (c *memberController) Renew(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	memberId, err := serverutils.ParamUUID(ctx, "id", "Member")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var req dto.RenewMembershipRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.renewalService.Renew(ctx.UserContext(), ownerId, memberId, &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return respond(ctx, fiber.StatusCreated, "Membership renewed", res, nil)
}

func (c *memberController) RenewalHistory(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	memberId, err := serverutils.ParamUUID(ctx, "id", "Member")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.renewalService.RenewalHistory(ctx.UserContext(), ownerId, memberId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Renewal history retrieved", res))
}

func (c *memberController) Suspend(ctx *fiber.Ctx) error {
	return c.setSuspension(ctx, true)
}

func (c *memberController) Reinstate(ctx *fiber.Ctx) error {
	return c.setSuspension(ctx, false)
}

func (c *memberController) setSuspension(ctx *fiber.Ctx, suspend bool) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	memberId, err := serverutils.ParamUUID(ctx, "id", "Member")
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var res *dto.MemberResponse
	message := "Member suspended"
	if suspend {
		res, err = c.memberService.SuspendMember(ctx.UserContext(), ownerId, memberId)
	} else {
		res, err = c.memberService.ReinstateMember(ctx.UserContext(), ownerId, memberId)
		message = "Member reinstated"
	}
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

// SendReminders mails members whose period ends within the window
// @Summary Send expiry reminders
// @Tags Members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ExpiryReminderRequest true "Window in days"
// @Success 200 {object} dto.ExpiryReminderResponse
// @Router /api/members/reminders [post]
func (c *memberController) SendReminders(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var req dto.ExpiryReminderRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, warnings, err := c.memberService.SendExpiryReminders(ctx.UserContext(), ownerId, req.WithinDays)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return respond(ctx, fiber.StatusOK, "Reminders processed", res, warnings)
}

func (c *memberController) Dashboard(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.memberService.Dashboard(ctx.UserContext(), ownerId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard retrieved", res))
}
