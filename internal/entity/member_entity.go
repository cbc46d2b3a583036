// FILE: internal/entity/member_entity.go
package entity

import (
	"time"

	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Member struct {
	Id          uuid.UUID
	OwnerId     uuid.UUID
	Name        string
	Email       string
	Phone       string
	Address     string
	DateOfBirth *time.Time
	Gender      Gender
	// Only StatusSuspended is authoritative; active/expired is re-derived from the current renewal.
	MembershipStatus     lifecycle.Status
	MembershipType       string
	CurrentRenewalId     *uuid.UUID
	CredentialHash       string
	MustRotateCredential bool
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Loaded alongside the member when available
	CurrentRenewal *Renewal
}

// MemberFilter narrows ListMembers. Empty fields do not filter.
type MemberFilter struct {
	Search           string
	MembershipType   string
	MembershipStatus lifecycle.Status
	Gender           Gender
	// Today is the gym's calendar date used to derive active/expired.
	Today time.Time
}

// PageQuery is a resolved, validated page window.
type PageQuery struct {
	Page  int
	Limit int
}

func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MemberStatusCounts is the derived-status breakdown used by the dashboard.
type MemberStatusCounts struct {
	Active    int64
	Expired   int64
	Suspended int64
}
