// FILE: internal/entity/renewal_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Renewal is one immutable ledger entry. PlanId stays even if the plan is later deleted.
type Renewal struct {
	Id           uuid.UUID
	OwnerId      uuid.UUID
	MemberId     uuid.UUID
	PlanId       *uuid.UUID
	PlanName     string
	RenewalDate  time.Time
	ExpiryDate   time.Time
	ExpireInDays int
	CreatedAt    time.Time
}
