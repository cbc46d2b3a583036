// FILE: internal/entity/owner_entity.go
package entity

import (
	"time"

	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
)

// Owner is the gym account and the root of a tenant partition.
type Owner struct {
	Id                 uuid.UUID
	GymName            string
	Email              string
	PasswordHash       string
	SubscriptionStatus lifecycle.OwnerStatus
	TrialEndsAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
