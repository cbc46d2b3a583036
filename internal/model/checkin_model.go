package model

import (
	"time"

	"github.com/google/uuid"
)

type CheckinRecord struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;index"`
	MemberId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(16);not null"`
	Reason    string    `gorm:"type:varchar(32)"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (CheckinRecord) TableName() string {
	return "checkin_records"
}
