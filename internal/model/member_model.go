package model

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	Id                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId              uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name                 string     `gorm:"type:varchar(255);not null"`
	Email                string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone                string     `gorm:"type:varchar(32)"`
	Address              string     `gorm:"type:text"`
	DateOfBirth          *time.Time `gorm:"type:date"`
	Gender               string     `gorm:"type:varchar(16)"`
	MembershipStatus     string     `gorm:"type:varchar(20);not null;default:'active'"`
	MembershipType       string     `gorm:"type:varchar(255);index"`
	CurrentRenewalId     *uuid.UUID `gorm:"type:uuid;index"` // FK added by cmd/migrate (circular with renewals)
	CredentialHash       string     `gorm:"type:varchar(255)"`
	MustRotateCredential bool       `gorm:"default:true"`
	CreatedAt            time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime"`

	Renewals []Renewal `gorm:"foreignKey:MemberId;constraint:OnDelete:CASCADE"`
}

func (Member) TableName() string {
	return "members"
}
