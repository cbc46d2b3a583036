// FILE: internal/dto/member_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// PlanSelection names either a catalog plan (PlanId) or a legacy membership tag. PlanId wins
// when both are given.
type PlanSelection struct {
	PlanId         *uuid.UUID `json:"planId"`
	MembershipType string     `json:"membershipType" validate:"omitempty,max=255"`
}

type RegisterMemberRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Address     string `json:"address" validate:"omitempty,max=1000"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
	StartDate   string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	PlanSelection
}

type RenewMembershipRequest struct {
	RenewalDate string `json:"renewalDate" validate:"omitempty,datetime=2006-01-02"`
	PlanSelection
}

type MemberListFilter struct {
	Search           string `json:"search" validate:"omitempty,max=255"`
	MembershipType   string `json:"membershipType" validate:"omitempty,max=255"`
	MembershipStatus string `json:"membershipStatus" validate:"omitempty,oneof=active expired suspended"`
	Gender           string `json:"gender" validate:"omitempty,oneof=male female other"`
}

type RenewalResponse struct {
	Id           uuid.UUID  `json:"id"`
	PlanId       *uuid.UUID `json:"planId"`
	PlanName     string     `json:"planName"`
	RenewalDate  *string    `json:"renewalDate"`
	ExpiryDate   *string    `json:"expiryDate"`
	ExpireInDays int        `json:"expireInDays"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type MemberResponse struct {
	Id                   uuid.UUID        `json:"id"`
	Name                 string           `json:"name"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone"`
	Address              string           `json:"address"`
	DateOfBirth          *string          `json:"dateOfBirth"`
	Gender               string           `json:"gender"`
	MembershipStatus     string           `json:"membershipStatus"`
	MembershipType       string           `json:"membershipType"`
	DaysRemaining        *int             `json:"daysRemaining"`
	CurrentRenewal       *RenewalResponse `json:"currentRenewal"`
	MustRotateCredential bool             `json:"mustRotateCredential"`
	CreatedAt            time.Time        `json:"createdAt"`
}

type RegisterMemberResponse struct {
	Member *MemberResponse `json:"member"`
	// Handed to the owner as well in case the welcome mail does not arrive.
	TemporaryCredential string `json:"temporaryCredential"`
}

type RenewMembershipResponse struct {
	Member  *MemberResponse  `json:"member"`
	Renewal *RenewalResponse `json:"renewal"`
}

type ExpiryReminderRequest struct {
	WithinDays int `json:"withinDays" validate:"min=0,max=60"`
}

type ExpiryReminderResponse struct {
	Candidates int `json:"candidates"`
	Sent       int `json:"sent"`
}

type DashboardResponse struct {
	TotalMembers          int64 `json:"totalMembers"`
	ActiveMembers         int64 `json:"activeMembers"`
	ExpiredMembers        int64 `json:"expiredMembers"`
	SuspendedMembers      int64 `json:"suspendedMembers"`
	ExpiringThisWeek      int   `json:"expiringThisWeek"`
	CheckinsToday         int64 `json:"checkinsToday"`
	RejectedCheckinsToday int64 `json:"rejectedCheckinsToday"`
}
