// FILE: internal/dto/plan_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanRequest is shared by create and update; update replaces every field including features.
type PlanRequest struct {
	Name           string          `json:"name" validate:"required,max=255"`
	DurationMonths int             `json:"durationMonths" validate:"required,min=1,max=12"`
	Price          decimal.Decimal `json:"price"`
	Features       []string        `json:"features" validate:"max=50,dive,required,max=255"`
	IsPopular      bool            `json:"isPopular"`
}

type PlanResponse struct {
	Id             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	DurationMonths int             `json:"durationMonths"`
	Price          decimal.Decimal `json:"price"`
	IsPopular      bool            `json:"isPopular"`
	IsActive       bool            `json:"isActive"`
	Features       []string        `json:"features"`
	MemberCount    *int64          `json:"memberCount,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type TogglePlanResponse struct {
	Id       uuid.UUID `json:"id"`
	IsActive bool      `json:"isActive"`
}
