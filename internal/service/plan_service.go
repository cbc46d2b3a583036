// FILE: internal/service/plan_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanService interface {
	CreatePlan(ctx context.Context, ownerId uuid.UUID, req *dto.PlanRequest) (*dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, ownerId, planId uuid.UUID, req *dto.PlanRequest) (*dto.PlanResponse, error)
	TogglePlanActive(ctx context.Context, ownerId, planId uuid.UUID) (*dto.TogglePlanResponse, error)
	DeletePlan(ctx context.Context, ownerId, planId uuid.UUID) error
	ListPlans(ctx context.Context, ownerId uuid.UUID) ([]*dto.PlanResponse, error)
	GetPlan(ctx context.Context, ownerId, planId uuid.UUID) (*dto.PlanResponse, error)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) PlanService {
	return &planService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// checkPlanRequest covers what struct tags cannot: the decimal price and duplicate features.
func checkPlanRequest(req *dto.PlanRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "This field is required"
	}
	if req.DurationMonths < lifecycle.MinDurationMonths || req.DurationMonths > lifecycle.MaxDurationMonths {
		fields["durationMonths"] = "Must be between 1 and 12"
	}
	if req.Price.IsNegative() {
		fields["price"] = "Must not be negative"
	}
	seen := make(map[string]bool, len(req.Features))
	for _, f := range req.Features {
		key := strings.ToLower(strings.TrimSpace(f))
		if seen[key] {
			fields["features"] = "Features must be unique"
			break
		}
		seen[key] = true
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

func normalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}

func (s *planService) CreatePlan(ctx context.Context, ownerId uuid.UUID, req *dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := checkPlanRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError(err)
	}
	defer uow.Rollback()

	name := strings.TrimSpace(req.Name)
	existing, err := uow.PlanRepository().FindByName(ctx, ownerId, name)
	if err != nil {
		return nil, storeError(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("A plan with this name already exists")
	}

	plan := &entity.Plan{
		Id:             uuid.New(),
		OwnerId:        ownerId,
		Name:           name,
		DurationMonths: req.DurationMonths,
		Price:          req.Price.Round(2),
		IsPopular:      req.IsPopular,
		IsActive:       true,
		Features:       normalizeFeatures(req.Features),
	}
	if err := uow.PlanRepository().Create(ctx, plan); err != nil {
		return nil, storeError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("PlanService", "Plan created", map[string]interface{}{"owner_id": ownerId, "plan_id": plan.Id})
	return toPlanResponse(plan), nil
}

func (s *planService) UpdatePlan(ctx context.Context, ownerId, planId uuid.UUID, req *dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := checkPlanRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError(err)
	}
	defer uow.Rollback()

	plan, err := uow.PlanRepository().FindByID(ctx, ownerId, planId)
	if err != nil {
		return nil, storeError(err)
	}
	if plan == nil {
		return nil, apperror.NotFound("Plan")
	}

	name := strings.TrimSpace(req.Name)
	if !strings.EqualFold(name, plan.Name) {
		clash, err := uow.PlanRepository().FindByName(ctx, ownerId, name)
		if err != nil {
			return nil, storeError(err)
		}
		if clash != nil && clash.Id != plan.Id {
			return nil, apperror.Conflict("A plan with this name already exists")
		}
	}

	plan.Name = name
	plan.DurationMonths = req.DurationMonths
	plan.Price = req.Price.Round(2)
	plan.IsPopular = req.IsPopular
	plan.Features = normalizeFeatures(req.Features)

	if err := uow.PlanRepository().Update(ctx, plan); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Plan")
		}
		return nil, storeError(err)
	}

	updated, err := uow.PlanRepository().FindByID(ctx, ownerId, planId)
	if err != nil {
		return nil, storeError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, storeError(err)
	}

	return toPlanResponse(updated), nil
}

func (s *planService) TogglePlanActive(ctx context.Context, ownerId, planId uuid.UUID) (*dto.TogglePlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError(err)
	}
	defer uow.Rollback()

	plan, err := uow.PlanRepository().FindByID(ctx, ownerId, planId)
	if err != nil {
		return nil, storeError(err)
	}
	if plan == nil {
		return nil, apperror.NotFound("Plan")
	}

	active := !plan.IsActive
	if err := uow.PlanRepository().SetActive(ctx, ownerId, planId, active); err != nil {
		return nil, storeError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, storeError(err)
	}

	return &dto.TogglePlanResponse{Id: planId, IsActive: active}, nil
}

// DeletePlan removes the plan and its features. Renewals bought on it keep the plan id and name.
func (s *planService) DeletePlan(ctx context.Context, ownerId, planId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.PlanRepository().Delete(ctx, ownerId, planId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Plan")
		}
		return storeError(err)
	}

	s.logger.Info("PlanService", "Plan deleted", map[string]interface{}{"owner_id": ownerId, "plan_id": planId})
	return nil
}

func (s *planService) ListPlans(ctx context.Context, ownerId uuid.UUID) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.PlanRepository().FindAllWithCounts(ctx, ownerId)
	if err != nil {
		return nil, storeError(err)
	}

	result := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		resp := toPlanResponse(&p.Plan)
		count := p.MemberCount
		resp.MemberCount = &count
		result = append(result, resp)
	}
	return result, nil
}

func (s *planService) GetPlan(ctx context.Context, ownerId, planId uuid.UUID) (*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.PlanRepository().FindByID(ctx, ownerId, planId)
	if err != nil {
		return nil, storeError(err)
	}
	if plan == nil {
		return nil, apperror.NotFound("Plan")
	}
	return toPlanResponse(plan), nil
}
