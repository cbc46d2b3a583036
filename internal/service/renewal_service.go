// FILE: internal/service/renewal_service.go
package service

import (
	"context"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/events"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type RenewalService interface {
	Renew(ctx context.Context, ownerId, memberId uuid.UUID, req *dto.RenewMembershipRequest) (*dto.RenewMembershipResponse, error)
	// RenewalHistory lists the member's ledger, newest first.
	RenewalHistory(ctx context.Context, ownerId, memberId uuid.UUID) ([]*dto.RenewalResponse, error)
}

type renewalService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *lifecycle.Engine
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewRenewalService(uowFactory unitofwork.RepositoryFactory, engine *lifecycle.Engine, publisher EventPublisher, log logger.ILogger) RenewalService {
	return &renewalService{
		uowFactory: uowFactory,
		engine:     engine,
		publisher:  publisher,
		logger:     log,
	}
}

// Renew appends a period and moves the member's pointer to it. The member row is locked for the
// whole unit, so concurrent renewals of one member serialize and each still adds its own row.
func (s *renewalService) Renew(ctx context.Context, ownerId, memberId uuid.UUID, req *dto.RenewMembershipRequest) (resp *dto.RenewMembershipResponse, err error) {
	ctx, span := tracer.Start(ctx, "RenewalService.Renew")
	span.SetAttributes(
		attribute.String("owner.id", ownerId.String()),
		attribute.String("member.id", memberId.String()),
	)
	defer func() { endSpan(span, err) }()

	renewalDate, err := dto.ParseDate(req.RenewalDate)
	if err != nil {
		return nil, apperror.Invalid("renewalDate", "Must be a date (YYYY-MM-DD)")
	}
	if renewalDate == nil {
		today := s.engine.Today()
		renewalDate = &today
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError(err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().FindByIDLocked(ctx, ownerId, memberId, contract.LockUpdate)
	if err != nil {
		return nil, storeError(err)
	}
	if member == nil {
		return nil, apperror.NotFound("Member")
	}

	resolved, err := resolveSelection(ctx, uow, ownerId, req.PlanSelection)
	if err != nil {
		return nil, err
	}
	if err := s.engine.CanRenew(member.MembershipStatus, resolved.planActive); err != nil {
		return nil, lifecycleError(err)
	}

	period, err := s.engine.ComputeExpiry(*renewalDate, resolved.selection)
	if err != nil {
		return nil, lifecycleError(err)
	}

	renewal := &entity.Renewal{
		Id:           uuid.New(),
		OwnerId:      ownerId,
		MemberId:     member.Id,
		PlanId:       resolved.planId,
		PlanName:     resolved.planName,
		RenewalDate:  period.RenewalDate,
		ExpiryDate:   period.ExpiryDate,
		ExpireInDays: period.ExpireInDays,
	}
	if err := uow.RenewalRepository().Create(ctx, renewal); err != nil {
		return nil, storeError(err)
	}
	if err := uow.MemberRepository().MoveCurrentRenewal(ctx, member.Id, renewal.Id, resolved.planName); err != nil {
		return nil, storeError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError(err)
	}

	member.CurrentRenewalId = &renewal.Id
	member.CurrentRenewal = renewal
	member.MembershipType = resolved.planName
	member.MembershipStatus = lifecycle.StatusActive

	span.SetAttributes(attribute.String("renewal.expiry", period.ExpiryDate.Format(dto.DateLayout)))
	s.logger.Info("RenewalService", "Membership renewed", map[string]interface{}{
		"owner_id":    ownerId,
		"member_id":   memberId,
		"renewal_id":  renewal.Id,
		"expiry_date": period.ExpiryDate.Format(dto.DateLayout),
	})
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.TypeMembershipRenewed, map[string]interface{}{
		"owner_id":    ownerId.String(),
		"member_id":   memberId.String(),
		"member_name": member.Name,
		"plan_name":   resolved.planName,
		"expiry_date": period.ExpiryDate.Format(dto.DateLayout),
	}))

	return &dto.RenewMembershipResponse{
		Member:  toMemberResponse(s.engine, member, s.engine.Now()),
		Renewal: toRenewalResponse(renewal),
	}, nil
}

func (s *renewalService) RenewalHistory(ctx context.Context, ownerId, memberId uuid.UUID) ([]*dto.RenewalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.MemberRepository().FindByID(ctx, ownerId, memberId)
	if err != nil {
		return nil, storeError(err)
	}
	if member == nil {
		return nil, apperror.NotFound("Member")
	}

	renewals, err := uow.RenewalRepository().FindAllByMember(ctx, ownerId, memberId)
	if err != nil {
		return nil, storeError(err)
	}

	result := make([]*dto.RenewalResponse, 0, len(renewals))
	for _, r := range renewals {
		result = append(result, toRenewalResponse(r))
	}
	return result, nil
}
