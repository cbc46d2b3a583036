package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Renewal rows are insert-only. PlanId deliberately has no FK so plan deletion leaves it in place.
type Renewal struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	MemberId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	PlanId       *uuid.UUID     `gorm:"type:uuid;index"`
	PlanName     string         `gorm:"type:varchar(255);not null"`
	RenewalDate  datatypes.Date `gorm:"type:date;not null"`
	ExpiryDate   datatypes.Date `gorm:"type:date;not null;check:chk_renewals_range,expiry_date > renewal_date"`
	ExpireInDays int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (Renewal) TableName() string {
	return "renewals"
}
