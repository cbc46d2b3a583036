// FILE: internal/entity/checkin_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type CheckinStatus string

const (
	CheckinStatusSuccess CheckinStatus = "success"
	CheckinStatusFailed  CheckinStatus = "failed"
)

type CheckinReason string

const (
	CheckinReasonNone                CheckinReason = ""
	CheckinReasonMemberNotFound      CheckinReason = "member_not_found"
	CheckinReasonNoMembership        CheckinReason = "no_membership"
	CheckinReasonMembershipExpired   CheckinReason = "membership_expired"
	CheckinReasonMembershipSuspended CheckinReason = "membership_suspended"
)

// CheckinRecord is written once per attempt. MemberId is whatever was presented at the desk,
// so it is not a foreign key.
type CheckinRecord struct {
	Id        uuid.UUID
	OwnerId   uuid.UUID
	MemberId  uuid.UUID
	Status    CheckinStatus
	Reason    CheckinReason
	CreatedAt time.Time
}

type CheckinFilter struct {
	MemberId *uuid.UUID
	Status   CheckinStatus
}
