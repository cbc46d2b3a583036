package apperror

type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeTransientInfra   ErrorCode = "TRANSIENT_INFRA"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)
