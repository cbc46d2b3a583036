package serverutils

import (
	"strconv"

	"gymflow-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParamUUID parses a path parameter. A malformed id is reported as not found, same as an
// id that belongs to nobody.
func ParamUUID(ctx *fiber.Ctx, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(resource)
	}
	return id, nil
}

// QueryInt returns fallback only when the parameter is absent; "0" is passed through for
// range validation.
func QueryInt(ctx *fiber.Ctx, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Invalid(name, "Must be a number")
	}
	return v, nil
}
