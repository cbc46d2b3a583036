// FILE: internal/service/checkin_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/events"
	"gymflow-be/pkg/lifecycle"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// CheckinFeedTopic carries every gate decision to the live front-desk feed.
const CheckinFeedTopic = "checkin_feed"

type CheckinService interface {
	// CheckIn always records the attempt. A rejection is a normal result, not an error.
	CheckIn(ctx context.Context, ownerId, memberId uuid.UUID) (*dto.CheckinResponse, error)
	ListCheckins(ctx context.Context, ownerId uuid.UUID, filter dto.CheckinListFilter, page dto.PageRequest) (*dto.PaginatedResponse[*dto.CheckinResponse], error)
}

type checkinService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *lifecycle.Engine
	feed       message.Publisher
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewCheckinService(
	uowFactory unitofwork.RepositoryFactory,
	engine *lifecycle.Engine,
	feed message.Publisher,
	publisher EventPublisher,
	log logger.ILogger,
) CheckinService {
	return &checkinService{
		uowFactory: uowFactory,
		engine:     engine,
		feed:       feed,
		publisher:  publisher,
		logger:     log,
	}
}

// decideCheckin admits only a known, unsuspended member whose current period covers today.
func decideCheckin(engine *lifecycle.Engine, member *entity.Member, now time.Time) (entity.CheckinStatus, entity.CheckinReason) {
	switch {
	case member == nil:
		return entity.CheckinStatusFailed, entity.CheckinReasonMemberNotFound
	case member.MembershipStatus == lifecycle.StatusSuspended:
		return entity.CheckinStatusFailed, entity.CheckinReasonMembershipSuspended
	case member.CurrentRenewal == nil:
		return entity.CheckinStatusFailed, entity.CheckinReasonNoMembership
	case engine.CurrentStatus(member.CurrentRenewal.ExpiryDate, now) != lifecycle.StatusActive:
		return entity.CheckinStatusFailed, entity.CheckinReasonMembershipExpired
	default:
		return entity.CheckinStatusSuccess, entity.CheckinReasonNone
	}
}

func (s *checkinService) CheckIn(ctx context.Context, ownerId, memberId uuid.UUID) (resp *dto.CheckinResponse, err error) {
	ctx, span := tracer.Start(ctx, "CheckinService.CheckIn")
	span.SetAttributes(
		attribute.String("owner.id", ownerId.String()),
		attribute.String("member.id", memberId.String()),
	)
	defer func() { endSpan(span, err) }()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError(err)
	}
	defer uow.Rollback()

	// SHARE keeps a concurrent suspend or renewal from slipping between decision and record.
	member, err := uow.MemberRepository().FindByIDLocked(ctx, ownerId, memberId, contract.LockShare)
	if err != nil {
		return nil, storeError(err)
	}

	now := s.engine.Now()
	status, reason := decideCheckin(s.engine, member, now)

	record := &entity.CheckinRecord{
		Id:       uuid.New(),
		OwnerId:  ownerId,
		MemberId: memberId,
		Status:   status,
		Reason:   reason,
	}
	if err := uow.CheckinRepository().Create(ctx, record); err != nil {
		return nil, storeError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, storeError(err)
	}

	resp = toCheckinResponse(record)
	if member != nil {
		resp.MemberName = member.Name
		if member.CurrentRenewal != nil {
			resp.ExpiryDate = dto.FormatDate(&member.CurrentRenewal.ExpiryDate)
			days := s.engine.DaysRemaining(member.CurrentRenewal.ExpiryDate, now)
			resp.DaysRemaining = &days
		}
	}

	span.SetAttributes(attribute.String("checkin.status", string(status)), attribute.String("checkin.reason", string(reason)))
	s.logger.Info("CheckinService", "Check-in decided", map[string]interface{}{
		"owner_id":  ownerId,
		"member_id": memberId,
		"status":    status,
		"reason":    reason,
	})

	s.pushToFeed(ownerId, resp)
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.TypeCheckinRecorded, map[string]interface{}{
		"owner_id":   ownerId.String(),
		"member_id":  memberId.String(),
		"checkin_id": record.Id.String(),
		"status":     string(status),
		"reason":     string(reason),
	}))

	return resp, nil
}

func (s *checkinService) pushToFeed(ownerId uuid.UUID, resp *dto.CheckinResponse) {
	if s.feed == nil {
		return
	}
	payload, err := json.Marshal(dto.CheckinFeedMessage{OwnerId: ownerId, Checkin: *resp, Occurred: resp.CreatedAt})
	if err != nil {
		s.logger.Error("CheckinService", "Failed to encode feed message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.feed.Publish(CheckinFeedTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn("CheckinService", "Failed to publish to check-in feed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *checkinService) ListCheckins(ctx context.Context, ownerId uuid.UUID, filter dto.CheckinListFilter, page dto.PageRequest) (*dto.PaginatedResponse[*dto.CheckinResponse], error) {
	window, err := page.Resolve()
	if err != nil {
		return nil, err
	}

	query := entity.CheckinFilter{Status: entity.CheckinStatus(filter.Status)}
	if filter.MemberId != "" {
		id, err := uuid.Parse(filter.MemberId)
		if err != nil {
			return nil, apperror.Invalid("memberId", "Must be a valid id")
		}
		query.MemberId = &id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, total, err := uow.CheckinRepository().List(ctx, ownerId, query, window)
	if err != nil {
		return nil, storeError(err)
	}

	items := make([]*dto.CheckinResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toCheckinResponse(r))
	}
	return dto.NewPaginatedResponse(items, total, window), nil
}
