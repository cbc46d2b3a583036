package serverutils

import (
	"errors"
	"log"
	"runtime/debug"

	"gymflow-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type BaseResponse[T any] struct {
	Success   bool     `json:"success"`
	Code      int      `json:"code"`
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode,omitempty"`
	Data      T        `json:"data,omitempty"`
	Details   any      `json:"details,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

// SuccessWithWarnings reports a completed operation whose side effects (mail, events) partly failed.
func SuccessWithWarnings[T any](code int, message string, data T, warnings []string) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success:  true,
		Code:     code,
		Message:  message,
		Data:     data,
		Warnings: warnings,
	}
}

func ErrorResponse(code int, message string) *BaseResponse[any] {
	return &BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// HandleError renders any error through the apperror mapping.
func HandleError(ctx *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	if appErr.HTTPCode >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
	}

	message := appErr.Message
	if appErr.Code == apperror.CodeInternalError {
		// Never leak driver errors to clients.
		message = "Internal server error"
	}

	return ctx.Status(appErr.HTTPCode).JSON(&BaseResponse[any]{
		Success:   false,
		Code:      appErr.HTTPCode,
		Message:   message,
		ErrorCode: string(appErr.Code),
		Details:   appErr.Details,
	})
}

// FiberErrorHandler is installed as fiber.Config.ErrorHandler so routing errors (404, 405, body
// too large) use the same envelope.
func FiberErrorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
	}
	return HandleError(ctx, err)
}

// ErrorHandlerMiddleware turns panics into 500 responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %s %s: %v\n%s", ctx.Method(), ctx.Path(), r, debug.Stack())
				err = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
			}
		}()
		return ctx.Next()
	}
}
