package mapper

import (
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/model"

	"gorm.io/datatypes"
)

type RenewalMapper struct{}

func NewRenewalMapper() *RenewalMapper {
	return &RenewalMapper{}
}

func (m *RenewalMapper) ToEntity(r *model.Renewal) *entity.Renewal {
	if r == nil {
		return nil
	}
	return &entity.Renewal{
		Id:           r.Id,
		OwnerId:      r.OwnerId,
		MemberId:     r.MemberId,
		PlanId:       r.PlanId,
		PlanName:     r.PlanName,
		RenewalDate:  utcDate(time.Time(r.RenewalDate)),
		ExpiryDate:   utcDate(time.Time(r.ExpiryDate)),
		ExpireInDays: r.ExpireInDays,
		CreatedAt:    r.CreatedAt,
	}
}

func (m *RenewalMapper) ToModel(r *entity.Renewal) *model.Renewal {
	if r == nil {
		return nil
	}
	return &model.Renewal{
		Id:           r.Id,
		OwnerId:      r.OwnerId,
		MemberId:     r.MemberId,
		PlanId:       r.PlanId,
		PlanName:     r.PlanName,
		RenewalDate:  datatypes.Date(r.RenewalDate),
		ExpiryDate:   datatypes.Date(r.ExpiryDate),
		ExpireInDays: r.ExpireInDays,
		CreatedAt:    r.CreatedAt,
	}
}

// Postgres DATE columns come back in the connection's zone; the ledger works in UTC midnights.
func utcDate(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
