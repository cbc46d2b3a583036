package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Plan struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_plans_owner_name,priority:1"`
	Name           string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_plans_owner_name,priority:2"`
	DurationMonths int             `gorm:"not null;check:chk_plans_duration,duration_months BETWEEN 1 AND 12"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_plans_price,price >= 0"`
	IsPopular      bool            `gorm:"default:false"`
	IsActive       bool            `gorm:"default:true"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`

	Features []PlanFeature `gorm:"foreignKey:PlanId;constraint:OnDelete:CASCADE"`
}

func (Plan) TableName() string {
	return "plans"
}

type PlanFeature struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlanId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Position int       `gorm:"not null;default:0"`
}

func (PlanFeature) TableName() string {
	return "plan_features"
}
