package controller

import (
	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// bindBody parses the JSON body into req and runs struct validation on it.
func bindBody(ctx *fiber.Ctx, v *validator.Validator, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Invalid("body", "Malformed JSON body")
	}
	return v.Validate(req)
}

// pageRequest reads ?page and ?limit, applying defaults only when absent.
func pageRequest(ctx *fiber.Ctx) (dto.PageRequest, error) {
	page, err := serverutils.QueryInt(ctx, "page", dto.DefaultPage)
	if err != nil {
		return dto.PageRequest{}, err
	}
	limit, err := serverutils.QueryInt(ctx, "limit", dto.DefaultLimit)
	if err != nil {
		return dto.PageRequest{}, err
	}
	return dto.PageRequest{Page: page, Limit: limit}, nil
}

// respond writes a success envelope; warnings are attached when side effects failed.
func respond[T any](ctx *fiber.Ctx, status int, message string, data T, warnings []string) error {
	return ctx.Status(status).JSON(serverutils.SuccessWithWarnings(status, message, data, warnings))
}
