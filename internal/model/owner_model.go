package model

import (
	"time"

	"github.com/google/uuid"
)

type Owner struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GymName            string    `gorm:"type:varchar(255);not null"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash       string    `gorm:"type:varchar(255);not null"`
	SubscriptionStatus string    `gorm:"type:varchar(20);not null;default:'trial'"`
	TrialEndsAt        time.Time `gorm:"not null"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`

	// Relations (cascade on owner deletion)
	Plans    []Plan          `gorm:"foreignKey:OwnerId;constraint:OnDelete:CASCADE"`
	Members  []Member        `gorm:"foreignKey:OwnerId;constraint:OnDelete:CASCADE"`
	Checkins []CheckinRecord `gorm:"foreignKey:OwnerId;constraint:OnDelete:CASCADE"`
}

func (Owner) TableName() string {
	return "owners"
}
