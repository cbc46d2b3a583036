package service

import (
	"context"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
)

// resolvedSelection is a plan choice checked against the owner's catalog.
type resolvedSelection struct {
	selection  lifecycle.Selection
	planId     *uuid.UUID
	planName   string
	planActive bool
}

func resolveSelection(ctx context.Context, uow unitofwork.UnitOfWork, ownerId uuid.UUID, sel dto.PlanSelection) (*resolvedSelection, error) {
	if sel.PlanId != nil {
		plan, err := uow.PlanRepository().FindByID(ctx, ownerId, *sel.PlanId)
		if err != nil {
			return nil, storeError(err)
		}
		if plan == nil {
			return nil, apperror.NotFound("Plan")
		}
		planId := plan.Id
		return &resolvedSelection{
			selection:  lifecycle.CatalogPlan(plan.DurationMonths),
			planId:     &planId,
			planName:   plan.Name,
			planActive: plan.IsActive,
		}, nil
	}

	if sel.MembershipType == "" {
		return nil, apperror.Invalid("planId", "Select a plan or a membership type")
	}

	tag := lifecycle.ResolveTag(sel.MembershipType)
	return &resolvedSelection{
		selection:  lifecycle.Legacy(tag.Name),
		planName:   tag.Name,
		planActive: true,
	}, nil
}
