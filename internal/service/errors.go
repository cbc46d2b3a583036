package service

import (
	"context"
	"errors"

	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/pkg/lifecycle"

	"gorm.io/gorm"
)

// storeError classifies a persistence failure. Cancellation passes through untouched so the
// caller sees why the unit was rolled back.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict("Resource already exists")
	default:
		return apperror.TransientInfra(err)
	}
}

func lifecycleError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidDuration):
		return apperror.Invalid("durationMonths", "Must be between 1 and 12")
	case errors.Is(err, lifecycle.ErrMemberSuspended):
		return apperror.Invalid("memberId", "Member is suspended")
	case errors.Is(err, lifecycle.ErrPlanInactive):
		return apperror.Invalid("planId", "Plan is disabled")
	default:
		return err
	}
}
