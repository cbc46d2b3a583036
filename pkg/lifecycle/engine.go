// Package lifecycle holds the membership date math: plan expiry, derived status,
// days remaining and owner trial expiry. Nothing here touches storage.
package lifecycle

import (
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
)

type OwnerStatus string

const (
	OwnerStatusTrial   OwnerStatus = "trial"
	OwnerStatusActive  OwnerStatus = "active"
	OwnerStatusExpired OwnerStatus = "expired"
)

const (
	MinDurationMonths = 1
	MaxDurationMonths = 12

	DefaultTrialDays = 60
)

var (
	ErrInvalidDuration  = errors.New("plan duration must be between 1 and 12 months")
	ErrMemberSuspended  = errors.New("member is suspended")
	ErrPlanInactive     = errors.New("plan is disabled")
	ErrNoCurrentRenewal = errors.New("member has no membership period")
)

// LegacyTag is one of the fixed membership tags that predate the plan catalog.
type LegacyTag struct {
	Name   string
	Months int
	Days   int
}

var legacyTags = map[string]LegacyTag{
	"basic":    {Name: "basic", Months: 1, Days: 30},
	"standard": {Name: "standard", Months: 3, Days: 90},
	"premium":  {Name: "premium", Months: 6, Days: 180},
	"annual":   {Name: "annual", Months: 12, Days: 365},
}

// ResolveTag maps a free-form tag onto a legacy tag; anything unrecognised is treated as basic.
func ResolveTag(tag string) LegacyTag {
	if t, ok := legacyTags[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return t
	}
	return legacyTags["basic"]
}

// Selection is what a registration or renewal is priced against: either a catalog plan
// (DurationMonths > 0) or a legacy tag.
type Selection struct {
	DurationMonths int
	Tag            string
}

func CatalogPlan(durationMonths int) Selection {
	return Selection{DurationMonths: durationMonths}
}

func Legacy(tag string) Selection {
	return Selection{Tag: tag}
}

func (s Selection) IsCatalog() bool {
	return s.DurationMonths != 0
}

// Period is the outcome of ComputeExpiry.
type Period struct {
	RenewalDate  time.Time
	ExpiryDate   time.Time
	ExpireInDays int
}

// Engine evaluates lifecycle rules against a clock in the gym's timezone.
type Engine struct {
	loc       *time.Location
	now       func() time.Time
	trialDays int
}

func NewEngine(loc *time.Location, trialDays int) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	return &Engine{loc: loc, now: time.Now, trialDays: trialDays}
}

// WithClock replaces the time source; used by tests and batch tools.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	c := *e
	c.now = now
	return &c
}

func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today is the current calendar date in the gym's timezone.
func (e *Engine) Today() time.Time {
	return DateOf(e.now(), e.loc)
}

// ComputeExpiry derives the membership period starting on start. start is a calendar date in the
// ledger form (midnight UTC, as returned by Today and DateOf); it is not shifted into the gym zone again.
//
// Catalog plans run start + N calendar months. Legacy tags cover N months inclusive,
// so the expiry is the last covered day, and report their nominal day count.
func (e *Engine) ComputeExpiry(start time.Time, sel Selection) (Period, error) {
	renewal := DateOf(start, time.UTC)

	if sel.IsCatalog() {
		if sel.DurationMonths < MinDurationMonths || sel.DurationMonths > MaxDurationMonths {
			return Period{}, ErrInvalidDuration
		}
		return Period{
			RenewalDate: renewal,
			ExpiryDate:  AddMonths(renewal, sel.DurationMonths),
		}, nil
	}

	tag := ResolveTag(sel.Tag)
	return Period{
		RenewalDate:  renewal,
		ExpiryDate:   AddMonths(renewal, tag.Months).AddDate(0, 0, -1),
		ExpireInDays: tag.Days,
	}, nil
}

// CurrentStatus is active through the whole expiry day and expired from the next day on.
func (e *Engine) CurrentStatus(expiryDate, now time.Time) Status {
	if DateOf(now, e.loc).After(DateOf(expiryDate, time.UTC)) {
		return StatusExpired
	}
	return StatusActive
}

// Effective layers the administrative suspension on top of the derived status.
// A member without a membership period is expired.
func (e *Engine) Effective(stored Status, expiryDate *time.Time, now time.Time) Status {
	if stored == StatusSuspended {
		return StatusSuspended
	}
	if expiryDate == nil {
		return StatusExpired
	}
	return e.CurrentStatus(*expiryDate, now)
}

// DaysRemaining counts calendar days from today to the expiry date; negative once expired.
func (e *Engine) DaysRemaining(expiryDate, now time.Time) int {
	return DaysBetween(DateOf(now, e.loc), DateOf(expiryDate, time.UTC))
}

// CanRenew reports whether a new period may be appended for a member in the given stored state.
func (e *Engine) CanRenew(stored Status, planActive bool) error {
	if stored == StatusSuspended {
		return ErrMemberSuspended
	}
	if !planActive {
		return ErrPlanInactive
	}
	return nil
}

// TrialEnd is fixed at owner registration.
func (e *Engine) TrialEnd(registeredAt time.Time) time.Time {
	return registeredAt.AddDate(0, 0, e.trialDays)
}

// OwnerState is evaluated lazily: a trial flips to expired the first time it is looked at after
// trialEnd. No sweep ever runs.
func (e *Engine) OwnerState(stored OwnerStatus, trialEnd, now time.Time) OwnerStatus {
	if stored == OwnerStatusTrial && now.After(trialEnd) {
		return OwnerStatusExpired
	}
	return stored
}
