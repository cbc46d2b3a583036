// FILE: internal/dto/checkin_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// CheckinRequest carries whatever the desk scanned. An id that is not a uuid is still an attempt.
type CheckinRequest struct {
	MemberId string `json:"memberId" validate:"required"`
}

type CheckinResponse struct {
	Id         uuid.UUID `json:"id"`
	MemberId   uuid.UUID `json:"memberId"`
	MemberName string    `json:"memberName,omitempty"`
	Admitted   bool      `json:"admitted"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	// Set when the member has a membership period, admitted or not.
	ExpiryDate    *string   `json:"expiryDate,omitempty"`
	DaysRemaining *int      `json:"daysRemaining,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CheckinListFilter struct {
	MemberId string `json:"memberId" validate:"omitempty,uuid"`
	Status   string `json:"status" validate:"omitempty,oneof=success failed"`
}

// CheckinFeedMessage is pushed to the front-desk websocket after every decision.
type CheckinFeedMessage struct {
	OwnerId  uuid.UUID       `json:"ownerId"`
	Checkin  CheckinResponse `json:"checkin"`
	Occurred time.Time       `json:"occurredAt"`
}
