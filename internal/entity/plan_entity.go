// FILE: internal/entity/plan_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Plan struct {
	Id             uuid.UUID
	OwnerId        uuid.UUID
	Name           string
	DurationMonths int
	Price          decimal.Decimal
	IsPopular      bool
	IsActive       bool
	Features       []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PlanWithCount is a plan plus the number of members whose current period was bought on it.
type PlanWithCount struct {
	Plan
	MemberCount int64
}
