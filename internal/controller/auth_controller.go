// FILE: internal/controller/auth_controller.go
package controller

import (
	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/pkg/validator"
	"gymflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, ownerAuth, memberAuth fiber.Handler)
	RegisterOwner(ctx *fiber.Ctx) error
	LoginOwner(ctx *fiber.Ctx) error
	LoginMember(ctx *fiber.Ctx) error
	RotateCredential(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service   service.IAuthService
	validator *validator.Validator
}

func NewAuthController(service service.IAuthService, v *validator.Validator) IAuthController {
	return &authController{service: service, validator: v}
}

func (c *authController) RegisterRoutes(r fiber.Router, ownerAuth, memberAuth fiber.Handler) {
	h := r.Group("/auth")
	h.Post("/owner/register", c.RegisterOwner)
	h.Post("/owner/login", c.LoginOwner)
	h.Get("/owner/me", ownerAuth, c.Me)
	h.Post("/member/login", c.LoginMember)
	h.Post("/member/rotate-credential", memberAuth, c.RotateCredential)
}

func (c *authController) RegisterOwner(ctx *fiber.Ctx) error {
	var req dto.OwnerRegisterRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.RegisterOwner(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return respond(ctx, fiber.StatusCreated, "Gym registered", res, nil)
}

func (c *authController) LoginOwner(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.LoginOwner(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) LoginMember(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.LoginMember(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) RotateCredential(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	memberId, err := serverutils.MemberIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	var req dto.RotateCredentialRequest
	if err := bindBody(ctx, c.validator, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	if err := c.service.RotateMemberCredential(ctx.UserContext(), ownerId, memberId, &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password updated", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerIdFromCtx(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.GetOwner(ctx.UserContext(), ownerId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Owner retrieved", res))
}
