package mapper

import (
	"gymflow-be/internal/entity"
	"gymflow-be/internal/model"
)

type CheckinMapper struct{}

func NewCheckinMapper() *CheckinMapper {
	return &CheckinMapper{}
}

func (m *CheckinMapper) ToEntity(c *model.CheckinRecord) *entity.CheckinRecord {
	if c == nil {
		return nil
	}
	return &entity.CheckinRecord{
		Id:        c.Id,
		OwnerId:   c.OwnerId,
		MemberId:  c.MemberId,
		Status:    entity.CheckinStatus(c.Status),
		Reason:    entity.CheckinReason(c.Reason),
		CreatedAt: c.CreatedAt,
	}
}

func (m *CheckinMapper) ToModel(c *entity.CheckinRecord) *model.CheckinRecord {
	if c == nil {
		return nil
	}
	return &model.CheckinRecord{
		Id:        c.Id,
		OwnerId:   c.OwnerId,
		MemberId:  c.MemberId,
		Status:    string(c.Status),
		Reason:    string(c.Reason),
		CreatedAt: c.CreatedAt,
	}
}
