package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/pkg/events"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideCheckin(t *testing.T) {
	engine := lifecycle.NewEngine(time.UTC, 0)
	now := time.Date(2024, time.March, 15, 21, 30, 0, 0, time.UTC)
	period := func(expiry string) *entity.Renewal {
		d, err := time.Parse(dto.DateLayout, expiry)
		require.NoError(t, err)
		return &entity.Renewal{ExpiryDate: d}
	}

	cases := []struct {
		name   string
		member *entity.Member
		status entity.CheckinStatus
		reason entity.CheckinReason
	}{
		{"unknown member", nil, entity.CheckinStatusFailed, entity.CheckinReasonMemberNotFound},
		{"suspended with valid period", &entity.Member{MembershipStatus: lifecycle.StatusSuspended, CurrentRenewal: period("2024-12-31")}, entity.CheckinStatusFailed, entity.CheckinReasonMembershipSuspended},
		{"no period", &entity.Member{MembershipStatus: lifecycle.StatusActive}, entity.CheckinStatusFailed, entity.CheckinReasonNoMembership},
		{"expired yesterday", &entity.Member{MembershipStatus: lifecycle.StatusActive, CurrentRenewal: period("2024-03-14")}, entity.CheckinStatusFailed, entity.CheckinReasonMembershipExpired},
		{"last day", &entity.Member{MembershipStatus: lifecycle.StatusActive, CurrentRenewal: period("2024-03-15")}, entity.CheckinStatusSuccess, entity.CheckinReasonNone},
		{"stale stored expired", &entity.Member{MembershipStatus: lifecycle.StatusExpired, CurrentRenewal: period("2024-04-01")}, entity.CheckinStatusSuccess, entity.CheckinReasonNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, reason := decideCheckin(engine, tc.member, now)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestCheckInAdmitsActiveMember(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")

	resp, err := h.checkins.CheckIn(t.Context(), ownerId, m.Id)
	require.NoError(t, err)

	assert.True(t, resp.Admitted)
	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Reason)
	assert.Equal(t, m.Name, resp.MemberName)
	assert.Equal(t, "2024-03-31", *resp.ExpiryDate)
	assert.Equal(t, 16, *resp.DaysRemaining)
	assert.Equal(t, contract.LockShare, h.store.lastLock)

	require.Len(t, h.store.checkins, 1)
	assert.Equal(t, entity.CheckinStatusSuccess, h.store.checkins[0].Status)

	require.Len(t, h.feed.messages, 1)
	var feed dto.CheckinFeedMessage
	require.NoError(t, json.Unmarshal(h.feed.messages[0].Payload, &feed))
	assert.Equal(t, ownerId, feed.OwnerId)
	assert.Equal(t, resp.Id, feed.Checkin.Id)
	assert.Contains(t, h.events.types(), events.TypeCheckinRecorded)
}

func TestCheckInRejectsExpiredMember(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	h.now = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-01-01")

	resp, err := h.checkins.CheckIn(t.Context(), ownerId, m.Id)
	require.NoError(t, err)

	assert.False(t, resp.Admitted)
	assert.Equal(t, "membership_expired", resp.Reason)
	assert.Equal(t, "2024-01-31", *resp.ExpiryDate)
	assert.Negative(t, *resp.DaysRemaining)

	require.Len(t, h.store.checkins, 1)
	rec := h.store.checkins[0]
	assert.Equal(t, entity.CheckinStatusFailed, rec.Status)
	assert.Equal(t, entity.CheckinReasonMembershipExpired, rec.Reason)
	assert.Equal(t, m.Id, rec.MemberId)
}

func TestCheckInWithoutRecordIsNotAdmitted(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")
	published := len(h.events.types())
	h.store.failures["checkin.create"] = errors.New("disk full")

	resp, err := h.checkins.CheckIn(t.Context(), ownerId, m.Id)
	requireCode(t, err, apperror.CodeTransientInfra)
	assert.Nil(t, resp)

	assert.Empty(t, h.store.checkins)
	assert.Empty(t, h.feed.messages)
	assert.Len(t, h.events.types(), published)
}

func TestCheckInCancelledBeforeCommitIsNotRecorded(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")

	ctx, cancel := context.WithCancel(t.Context())
	h.store.beforeCommit = cancel

	resp, err := h.checkins.CheckIn(ctx, ownerId, m.Id)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, resp)
	assert.Empty(t, h.store.checkins)
	assert.Empty(t, h.feed.messages)
}

func TestCheckInRecordsEveryAttempt(t *testing.T) {
	h := newHarness(t)
	ownerA := h.owner(t, "Iron Temple")
	ownerB := h.owner(t, "Lift Lab")
	active := h.register(t, ownerA, "a@members.test", tagSel("basic"), "2024-03-01")
	suspended := h.register(t, ownerA, "s@members.test", tagSel("basic"), "2024-03-01")
	_, err := h.members.SuspendMember(t.Context(), ownerA, suspended.Id)
	require.NoError(t, err)
	unknown := uuid.New()

	attempts := []struct {
		owner  uuid.UUID
		member uuid.UUID
		reason string
	}{
		{ownerA, active.Id, ""},
		{ownerA, active.Id, ""},
		{ownerA, suspended.Id, "membership_suspended"},
		{ownerA, unknown, "member_not_found"},
		// What the desk sends for a card id that is not a uuid.
		{ownerA, uuid.Nil, "member_not_found"},
		// Another gym's desk cannot see this member.
		{ownerB, active.Id, "member_not_found"},
	}
	for i, a := range attempts {
		resp, err := h.checkins.CheckIn(t.Context(), a.owner, a.member)
		require.NoError(t, err)
		assert.Equal(t, a.reason == "", resp.Admitted, "attempt %d", i)
		assert.Equal(t, a.reason, resp.Reason, "attempt %d", i)
		require.Len(t, h.store.checkins, i+1)

		rec := h.store.checkins[i]
		assert.Equal(t, a.owner, rec.OwnerId)
		assert.Equal(t, a.member, rec.MemberId)
		assert.Equal(t, resp.Status, string(rec.Status))
	}
	assert.Len(t, h.feed.messages, len(attempts))
}

func TestListCheckins(t *testing.T) {
	h := newHarness(t)
	ownerA := h.owner(t, "Iron Temple")
	ownerB := h.owner(t, "Lift Lab")
	a := h.register(t, ownerA, "a@members.test", tagSel("basic"), "2024-03-01")
	b := h.register(t, ownerA, "b@members.test", tagSel("basic"), "2023-03-01")

	for _, id := range []uuid.UUID{a.Id, b.Id, a.Id} {
		_, err := h.checkins.CheckIn(t.Context(), ownerA, id)
		require.NoError(t, err)
	}
	_, err := h.checkins.CheckIn(t.Context(), ownerB, a.Id)
	require.NoError(t, err)

	page := dto.PageRequest{Page: 1, Limit: 10}
	all, err := h.checkins.ListCheckins(t.Context(), ownerA, dto.CheckinListFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalItems)
	assert.Equal(t, a.Id, all.Items[0].MemberId)

	failed, err := h.checkins.ListCheckins(t.Context(), ownerA, dto.CheckinListFilter{Status: "failed"}, page)
	require.NoError(t, err)
	require.Len(t, failed.Items, 1)
	assert.Equal(t, b.Id, failed.Items[0].MemberId)

	mine, err := h.checkins.ListCheckins(t.Context(), ownerA, dto.CheckinListFilter{MemberId: a.Id.String()}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.TotalItems)

	_, err = h.checkins.ListCheckins(t.Context(), ownerA, dto.CheckinListFilter{MemberId: "nope"}, page)
	assert.Contains(t, fieldErrors(t, err), "memberId")

	_, err = h.checkins.ListCheckins(t.Context(), ownerA, dto.CheckinListFilter{}, dto.PageRequest{Page: 0, Limit: 10})
	requireCode(t, err, apperror.CodeValidationFailed)
}
