package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByMember struct {
	MemberID uuid.UUID
}

func (s ByMember) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("member_id = ?", s.MemberID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	if s.Status == "" {
		return db
	}
	return db.Where("status = ?", s.Status)
}
