// FILE: internal/pkg/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries everything the HTTP layer needs to render a failure.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so callers can write errors.Is(err, apperror.ErrNotFound).
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPCode: httpCode}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation     = New(CodeValidationFailed, "validation failed", http.StatusBadRequest)
	ErrConflict       = New(CodeConflict, "conflict", http.StatusConflict)
	ErrNotFound       = New(CodeNotFound, "not found", http.StatusNotFound)
	ErrTransientInfra = New(CodeTransientInfra, "service temporarily unavailable", http.StatusServiceUnavailable)
	ErrUnauthorized   = New(CodeUnauthorized, "unauthorized", http.StatusUnauthorized)
)

// Validation reports field-level problems: field name -> message.
func Validation(fields map[string]string) *AppError {
	return New(CodeValidationFailed, "Validation failed", http.StatusBadRequest).WithDetails(fields)
}

// Invalid is a single-field validation failure.
func Invalid(field, message string) *AppError {
	return Validation(map[string]string{field: message})
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

// NotFound never says whether the resource exists under another owner.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound)
}

func TransientInfra(err error) *AppError {
	return Wrap(err, CodeTransientInfra, "Service temporarily unavailable", http.StatusServiceUnavailable)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message, http.StatusTooManyRequests)
}

func Internal(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// From normalises any error into an AppError; unknown errors become internal errors.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
