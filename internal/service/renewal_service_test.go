package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenewAppendsToLedger(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	quarterly := h.plan(t, ownerId, "Quarterly", 3)
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-01-01")

	dates := []string{"2024-02-01", "2024-05-01", "2024-08-01"}
	var last *dto.RenewMembershipResponse
	for _, d := range dates {
		resp, err := h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{
			RenewalDate:   d,
			PlanSelection: planSel(quarterly.Id),
		})
		require.NoError(t, err)
		last = resp
	}

	assert.Len(t, h.store.renewals, len(dates)+1)

	stored := h.store.members[m.Id]
	require.NotNil(t, stored.CurrentRenewalId)
	assert.Equal(t, last.Renewal.Id, *stored.CurrentRenewalId)
	assert.Equal(t, "Quarterly", stored.MembershipType)
	assert.Equal(t, "2024-11-01", *last.Renewal.ExpiryDate)
	assert.Equal(t, contract.LockUpdate, h.store.lastLock)

	history, err := h.renewals.RenewalHistory(t.Context(), ownerId, m.Id)
	require.NoError(t, err)
	require.Len(t, history, len(dates)+1)
	assert.Equal(t, "2024-08-01", *history[0].RenewalDate)
	assert.Equal(t, "2024-01-01", *history[len(history)-1].RenewalDate)
	assert.Equal(t, "basic", history[len(history)-1].PlanName)
}

// A lapsed member renewed today is active again and moves to the new tag.
func TestRenewReactivatesExpiredMember(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2023-06-01")
	require.Equal(t, "expired", m.MembershipStatus)

	resp, err := h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{PlanSelection: tagSel("standard")})
	require.NoError(t, err)

	assert.Equal(t, "active", resp.Member.MembershipStatus)
	assert.Equal(t, "standard", resp.Member.MembershipType)
	assert.Equal(t, "2024-03-15", *resp.Renewal.RenewalDate)
	assert.Equal(t, "2024-06-14", *resp.Renewal.ExpiryDate)
	assert.Equal(t, 90, resp.Renewal.ExpireInDays)
	assert.Contains(t, h.events.types(), events.TypeMembershipRenewed)
}

func TestRenewRejectsSuspendedMember(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")
	_, err := h.members.SuspendMember(t.Context(), ownerId, m.Id)
	require.NoError(t, err)

	_, err = h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{PlanSelection: tagSel("annual")})
	requireCode(t, err, apperror.CodeValidationFailed)
	assert.Len(t, h.store.renewals, 1)
}

func TestRenewRejectsDisabledPlan(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	plan := h.plan(t, ownerId, "Monthly", 1)
	m := h.register(t, ownerId, "a@members.test", planSel(plan.Id), "2024-03-01")
	_, err := h.plans.TogglePlanActive(t.Context(), ownerId, plan.Id)
	require.NoError(t, err)

	_, err = h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{PlanSelection: planSel(plan.Id)})
	assert.Contains(t, fieldErrors(t, err), "planId")

	// Existing periods on the disabled plan are untouched.
	got, err := h.members.GetMember(t.Context(), ownerId, m.Id)
	require.NoError(t, err)
	assert.Equal(t, "active", got.MembershipStatus)
}

func TestRenewIsTenantScoped(t *testing.T) {
	h := newHarness(t)
	ownerA := h.owner(t, "Iron Temple")
	ownerB := h.owner(t, "Lift Lab")
	m := h.register(t, ownerA, "a@members.test", tagSel("basic"), "2024-03-01")
	foreignPlan := h.plan(t, ownerB, "Monthly", 1)

	_, err := h.renewals.Renew(t.Context(), ownerB, m.Id, &dto.RenewMembershipRequest{PlanSelection: tagSel("basic")})
	requireCode(t, err, apperror.CodeNotFound)

	_, err = h.renewals.Renew(t.Context(), ownerA, m.Id, &dto.RenewMembershipRequest{PlanSelection: planSel(foreignPlan.Id)})
	requireCode(t, err, apperror.CodeNotFound)

	_, err = h.renewals.RenewalHistory(t.Context(), ownerB, m.Id)
	requireCode(t, err, apperror.CodeNotFound)

	assert.Len(t, h.store.renewals, 1)
}

func TestConcurrentRenewalsSerialize(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan *dto.RenewMembershipResponse, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{PlanSelection: tagSel("basic")})
			errs <- err
			results <- resp
		}()
	}
	wg.Wait()
	close(errs)
	close(results)
	for err := range errs {
		require.NoError(t, err)
	}

	ids := map[string]bool{}
	for resp := range results {
		ids[resp.Renewal.Id.String()] = true
	}
	assert.Len(t, ids, workers)

	require.Len(t, h.store.renewals, workers+1)
	assert.Zero(t, h.store.lostUpdates, "every renewal saw the pointer left by the previous one")

	// Renewals commit in lock order, so the pointer ends on the last one appended.
	lastCommitted := h.store.renewals[len(h.store.renewals)-1]
	stored := h.store.members[m.Id]
	require.NotNil(t, stored.CurrentRenewalId)
	assert.Equal(t, lastCommitted.Id, *stored.CurrentRenewalId)
	for _, rn := range h.store.renewals {
		assert.Equal(t, m.Id, rn.MemberId)
	}
}

func TestRenewCancelledBeforeCommitLeavesLedgerUntouched(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")
	before := *h.store.members[m.Id].CurrentRenewalId
	published := len(h.events.types())

	ctx, cancel := context.WithCancel(t.Context())
	h.store.beforeCommit = cancel

	_, err := h.renewals.Renew(ctx, ownerId, m.Id, &dto.RenewMembershipRequest{PlanSelection: tagSel("annual")})
	require.ErrorIs(t, err, context.Canceled)

	assert.Len(t, h.store.renewals, 1)
	stored := h.store.members[m.Id]
	assert.Equal(t, before, *stored.CurrentRenewalId)
	assert.Equal(t, "basic", stored.MembershipType)
	assert.Len(t, h.events.types(), published)

	// The row lock was released with the rollback.
	h.store.beforeCommit = nil
	_, err = h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{PlanSelection: tagSel("annual")})
	require.NoError(t, err)
	assert.Len(t, h.store.renewals, 2)
}

func TestRenewFailedPointerMoveRollsBackRenewal(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")

	h.store.failures["member.move_current_renewal"] = errors.New("connection reset")
	_, err := h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{PlanSelection: tagSel("annual")})
	requireCode(t, err, apperror.CodeTransientInfra)

	assert.Len(t, h.store.renewals, 1)
	assert.Equal(t, "basic", h.store.members[m.Id].MembershipType)
}

func TestRenewRejectsBadRenewalDate(t *testing.T) {
	h := newHarness(t)
	ownerId := h.owner(t, "Iron Temple")
	m := h.register(t, ownerId, "a@members.test", tagSel("basic"), "2024-03-01")

	_, err := h.renewals.Renew(t.Context(), ownerId, m.Id, &dto.RenewMembershipRequest{
		RenewalDate:   "2024-02-30",
		PlanSelection: tagSel("basic"),
	})
	assert.Contains(t, fieldErrors(t, err), "renewalDate")
}
