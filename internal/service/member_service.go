// FILE: internal/service/member_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/pkg/mailer"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/events"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const dashboardExpiringWindowDays = 7

type MemberService interface {
	// RegisterMember returns warnings for side effects that failed after the member was committed.
	RegisterMember(ctx context.Context, ownerId uuid.UUID, req *dto.RegisterMemberRequest) (*dto.RegisterMemberResponse, []string, error)
	ListMembers(ctx context.Context, ownerId uuid.UUID, filter dto.MemberListFilter, page dto.PageRequest) (*dto.PaginatedResponse[*dto.MemberResponse], error)
	GetMember(ctx context.Context, ownerId, memberId uuid.UUID) (*dto.MemberResponse, error)
	SuspendMember(ctx context.Context, ownerId, memberId uuid.UUID) (*dto.MemberResponse, error)
	ReinstateMember(ctx context.Context, ownerId, memberId uuid.UUID) (*dto.MemberResponse, error)
	SendExpiryReminders(ctx context.Context, ownerId uuid.UUID, withinDays int) (*dto.ExpiryReminderResponse, []string, error)
	Dashboard(ctx context.Context, ownerId uuid.UUID) (*dto.DashboardResponse, error)
}

type memberService struct {
	uowFactory   unitofwork.RepositoryFactory
	engine       *lifecycle.Engine
	emailService mailer.IEmailService
	publisher    EventPublisher
	ownerCache   *memory.OwnerCache
	credentials  CredentialGenerator
	logger       logger.ILogger
}

func NewMemberService(
	uowFactory unitofwork.RepositoryFactory,
	engine *lifecycle.Engine,
	emailService mailer.IEmailService,
	publisher EventPublisher,
	ownerCache *memory.OwnerCache,
	log logger.ILogger,
) MemberService {
	return &memberService{
		uowFactory:   uowFactory,
		engine:       engine,
		emailService: emailService,
		publisher:    publisher,
		ownerCache:   ownerCache,
		credentials:  generateTemporaryCredential,
		logger:       log,
	}
}

func (s *memberService) RegisterMember(ctx context.Context, ownerId uuid.UUID, req *dto.RegisterMemberRequest) (*dto.RegisterMemberResponse, []string, error) {
	dob, err := dto.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, nil, apperror.Invalid("dateOfBirth", "Must be a date (YYYY-MM-DD)")
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, apperror.Invalid("startDate", "Must be a date (YYYY-MM-DD)")
	}
	if start == nil {
		today := s.engine.Today()
		start = &today
	}
	email := normalizeEmail(req.Email)

	tempCredential, err := s.credentials()
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempCredential), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, storeError(err)
	}
	defer uow.Rollback()

	// Email is unique across every gym, not just this owner's.
	existing, err := uow.MemberRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, storeError(err)
	}
	if existing != nil {
		return nil, nil, apperror.Conflict("Email already registered")
	}

	resolved, err := resolveSelection(ctx, uow, ownerId, req.PlanSelection)
	if err != nil {
		return nil, nil, err
	}
	if !resolved.planActive {
		return nil, nil, lifecycleError(lifecycle.ErrPlanInactive)
	}
	period, err := s.engine.ComputeExpiry(*start, resolved.selection)
	if err != nil {
		return nil, nil, lifecycleError(err)
	}

	member := &entity.Member{
		Id:                   uuid.New(),
		OwnerId:              ownerId,
		Name:                 strings.TrimSpace(req.Name),
		Email:                email,
		Phone:                strings.TrimSpace(req.Phone),
		Address:              strings.TrimSpace(req.Address),
		DateOfBirth:          dob,
		Gender:               entity.Gender(req.Gender),
		MembershipStatus:     lifecycle.StatusActive,
		MembershipType:       resolved.planName,
		CredentialHash:       string(hash),
		MustRotateCredential: true,
	}
	if err := uow.MemberRepository().Create(ctx, member); err != nil {
		return nil, nil, storeError(err)
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
		return nil, nil, storeError(err)
	}
	if err := uow.MemberRepository().MoveCurrentRenewal(ctx, member.Id, renewal.Id, resolved.planName); err != nil {
		return nil, nil, storeError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, storeError(err)
	}

	member.CurrentRenewalId = &renewal.Id
	member.CurrentRenewal = renewal

	s.logger.Info("MemberService", "Member registered", map[string]interface{}{
		"owner_id":  ownerId,
		"member_id": member.Id,
		"plan":      resolved.planName,
	})

	var warnings []string
	gymName := s.gymName(ctx, ownerId)
	if err := s.emailService.SendWelcome(member.Email, tempCredential, member.Name, gymName); err != nil {
		s.logger.Warn("MemberService", "Welcome email failed", map[string]interface{}{"member_id": member.Id, "error": err.Error()})
		warnings = append(warnings, fmt.Sprintf("Welcome email was not sent: %v", err))
	}

	publishAfterCommit(ctx, s.publisher, s.logger, events.New(events.TypeMemberRegistered, map[string]interface{}{
		"owner_id":    ownerId.String(),
		"member_id":   member.Id.String(),
		"member_name": member.Name,
		"plan_name":   resolved.planName,
		"expiry_date": renewal.ExpiryDate.Format(dto.DateLayout),
	}))

	return &dto.RegisterMemberResponse{
		Member:              toMemberResponse(s.engine, member, s.engine.Now()),
		TemporaryCredential: tempCredential,
	}, warnings, nil
}

func (s *memberService) ListMembers(ctx context.Context, ownerId uuid.UUID, filter dto.MemberListFilter, page dto.PageRequest) (*dto.PaginatedResponse[*dto.MemberResponse], error) {
	window, err := page.Resolve()
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	members, total, err := uow.MemberRepository().List(ctx, ownerId, entity.MemberFilter{
		Search:           filter.Search,
		MembershipType:   filter.MembershipType,
		MembershipStatus: lifecycle.Status(filter.MembershipStatus),
		Gender:           entity.Gender(filter.Gender),
		Today:            s.engine.Today(),
	}, window)
	if err != nil {
		return nil, storeError(err)
	}

	now := s.engine.Now()
	items := make([]*dto.MemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberResponse(s.engine, m, now))
	}
	return dto.NewPaginatedResponse(items, total, window), nil
}

func (s *memberService) GetMember(ctx context.Context, ownerId, memberId uuid.UUID) (*dto.MemberResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.MemberRepository().FindByID(ctx, ownerId, memberId)
	if err != nil {
		return nil, storeError(err)
	}
	if member == nil {
		return nil, apperror.NotFound("Member")
	}
	return toMemberResponse(s.engine, member, s.engine.Now()), nil
}

func (s *memberService) SuspendMember(ctx context.Context, ownerId, memberId uuid.UUID) (*dto.MemberResponse, error) {
	return s.setSuspension(ctx, ownerId, memberId, true)
}

func (s *memberService) ReinstateMember(ctx context.Context, ownerId, memberId uuid.UUID) (*dto.MemberResponse, error) {
	return s.setSuspension(ctx, ownerId, memberId, false)
}

// setSuspension is idempotent. Reinstating stores the derived status so the column is not left
// claiming "suspended".
func (s *memberService) setSuspension(ctx context.Context, ownerId, memberId uuid.UUID, suspend bool) (*dto.MemberResponse, error) {
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

	now := s.engine.Now()
	next := lifecycle.StatusSuspended
	if !suspend {
		next = lifecycle.StatusExpired
		if member.CurrentRenewal != nil {
			next = s.engine.CurrentStatus(member.CurrentRenewal.ExpiryDate, now)
		}
	}

	if member.MembershipStatus == next {
		return toMemberResponse(s.engine, member, now), nil
	}
	wasSuspended := member.MembershipStatus == lifecycle.StatusSuspended
	if !suspend && !wasSuspended {
		return toMemberResponse(s.engine, member, now), nil
	}

	if err := uow.MemberRepository().UpdateStatus(ctx, member.Id, next); err != nil {
		return nil, storeError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, storeError(err)
	}
	member.MembershipStatus = next

	eventType := events.TypeMemberReinstated
	if suspend {
		eventType = events.TypeMemberSuspended
	}
	s.logger.Info("MemberService", "Member "+strings.TrimPrefix(eventType, "member."), map[string]interface{}{"owner_id": ownerId, "member_id": memberId})
	publishAfterCommit(ctx, s.publisher, s.logger, events.New(eventType, map[string]interface{}{
		"owner_id":    ownerId.String(),
		"member_id":   memberId.String(),
		"member_name": member.Name,
	}))

	return toMemberResponse(s.engine, member, now), nil
}

func (s *memberService) SendExpiryReminders(ctx context.Context, ownerId uuid.UUID, withinDays int) (*dto.ExpiryReminderResponse, []string, error) {
	if withinDays < 0 {
		return nil, nil, apperror.Invalid("withinDays", "Must be at least 0")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	today := s.engine.Today()
	members, err := uow.MemberRepository().FindExpiring(ctx, ownerId, today, today.AddDate(0, 0, withinDays))
	if err != nil {
		return nil, nil, storeError(err)
	}

	gymName := s.gymName(ctx, ownerId)
	now := s.engine.Now()

	resp := &dto.ExpiryReminderResponse{Candidates: len(members)}
	var warnings []string
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if m.CurrentRenewal == nil {
			continue
		}
		expiry := m.CurrentRenewal.ExpiryDate
		err := s.emailService.SendExpiryReminder(m.Email, m.Name, gymName, expiry, s.engine.DaysRemaining(expiry, now))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Reminder to %s was not sent: %v", m.Email, err))
			continue
		}
		resp.Sent++
	}

	s.logger.Info("MemberService", "Expiry reminders processed", map[string]interface{}{
		"owner_id":   ownerId,
		"candidates": resp.Candidates,
		"sent":       resp.Sent,
	})
	return resp, warnings, nil
}

func (s *memberService) Dashboard(ctx context.Context, ownerId uuid.UUID) (*dto.DashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	today := s.engine.Today()

	counts, err := uow.MemberRepository().CountByStatus(ctx, ownerId, today)
	if err != nil {
		return nil, storeError(err)
	}
	expiring, err := uow.MemberRepository().FindExpiring(ctx, ownerId, today, today.AddDate(0, 0, dashboardExpiringWindowDays))
	if err != nil {
		return nil, storeError(err)
	}

	dayStart := s.startOfDay()
	checkins, err := uow.CheckinRepository().CountSince(ctx, ownerId, dayStart, "")
	if err != nil {
		return nil, storeError(err)
	}
	rejected, err := uow.CheckinRepository().CountSince(ctx, ownerId, dayStart, entity.CheckinStatusFailed)
	if err != nil {
		return nil, storeError(err)
	}

	return &dto.DashboardResponse{
		TotalMembers:          counts.Active + counts.Expired + counts.Suspended,
		ActiveMembers:         counts.Active,
		ExpiredMembers:        counts.Expired,
		SuspendedMembers:      counts.Suspended,
		ExpiringThisWeek:      len(expiring),
		CheckinsToday:         checkins,
		RejectedCheckinsToday: rejected,
	}, nil
}

// startOfDay is midnight of the gym's current day as an instant.
func (s *memberService) startOfDay() time.Time {
	now := s.engine.Now().In(s.engine.Location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.engine.Location())
}

func (s *memberService) gymName(ctx context.Context, ownerId uuid.UUID) string {
	if name, ok := s.ownerCache.GymName(ownerId); ok {
		return name
	}
	owner, err := s.uowFactory.NewUnitOfWork(ctx).OwnerRepository().FindByID(ctx, ownerId)
	if err != nil || owner == nil {
		return "your gym"
	}
	s.ownerCache.SaveGymName(ownerId, owner.GymName)
	return owner.GymName
}
