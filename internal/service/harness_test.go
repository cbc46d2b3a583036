package service

import (
	"errors"
	"testing"
	"time"

	"gymflow-be/internal/config"
	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testCredential = "K7P9XM2QRT"

type harness struct {
	now time.Time

	store  *fakeStore
	engine *lifecycle.Engine
	mailer *fakeMailer
	events *fakePublisher
	feed   *fakeFeed
	cache  *memory.OwnerCache

	plans    PlanService
	members  *memberService
	renewals RenewalService
	checkins CheckinService
	auth     IAuthService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		now:    time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
		store:  newFakeStore(),
		mailer: &fakeMailer{},
		events: &fakePublisher{},
		feed:   &fakeFeed{},
		cache:  memory.NewOwnerCache(time.Hour),
	}
	clock := func() time.Time { return h.now }
	h.store.clock = clock
	h.engine = lifecycle.NewEngine(time.UTC, 60).WithClock(clock)

	log := logger.NewNopLogger()
	h.plans = NewPlanService(h.store, log)
	h.members = NewMemberService(h.store, h.engine, h.mailer, h.events, h.cache, log).(*memberService)
	h.members.credentials = func() (string, error) { return testCredential, nil }
	h.renewals = NewRenewalService(h.store, h.engine, h.events, log)
	h.checkins = NewCheckinService(h.store, h.engine, h.feed, h.events, log)
	h.auth = NewAuthService(h.store, h.engine, memory.NewLoginLimiter(3), h.cache, config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, log)
	return h
}

func (h *harness) owner(t *testing.T, gymName string) uuid.UUID {
	t.Helper()
	owner := &entity.Owner{
		Id:                 uuid.New(),
		GymName:            gymName,
		Email:              uuid.NewString() + "@owners.test",
		SubscriptionStatus: lifecycle.OwnerStatusTrial,
		TrialEndsAt:        h.engine.TrialEnd(h.now),
	}
	require.NoError(t, h.store.NewUnitOfWork(t.Context()).OwnerRepository().Create(t.Context(), owner))
	return owner.Id
}

func (h *harness) plan(t *testing.T, ownerId uuid.UUID, name string, months int) *dto.PlanResponse {
	t.Helper()
	p, err := h.plans.CreatePlan(t.Context(), ownerId, &dto.PlanRequest{
		Name:           name,
		DurationMonths: months,
		Price:          decimal.NewFromInt(int64(months) * 100000),
		Features:       []string{"Gym floor"},
	})
	require.NoError(t, err)
	return p
}

func (h *harness) register(t *testing.T, ownerId uuid.UUID, email string, sel dto.PlanSelection, start string) *dto.MemberResponse {
	t.Helper()
	resp, _, err := h.members.RegisterMember(t.Context(), ownerId, &dto.RegisterMemberRequest{
		Name:          "Member " + email,
		Email:         email,
		Gender:        "female",
		StartDate:     start,
		PlanSelection: sel,
	})
	require.NoError(t, err)
	return resp.Member
}

func planSel(id uuid.UUID) dto.PlanSelection {
	return dto.PlanSelection{PlanId: &id}
}

func tagSel(tag string) dto.PlanSelection {
	return dto.PlanSelection{MembershipType: tag}
}

func requireCode(t *testing.T, err error, code apperror.ErrorCode) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := requireCode(t, err, apperror.CodeValidationFailed)
	fields, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	return fields
}
