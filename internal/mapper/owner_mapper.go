package mapper

import (
	"gymflow-be/internal/entity"
	"gymflow-be/internal/model"
	"gymflow-be/pkg/lifecycle"
)

type OwnerMapper struct{}

func NewOwnerMapper() *OwnerMapper {
	return &OwnerMapper{}
}

func (m *OwnerMapper) ToEntity(o *model.Owner) *entity.Owner {
	if o == nil {
		return nil
	}
	return &entity.Owner{
		Id:                 o.Id,
		GymName:            o.GymName,
		Email:              o.Email,
		PasswordHash:       o.PasswordHash,
		SubscriptionStatus: lifecycle.OwnerStatus(o.SubscriptionStatus),
		TrialEndsAt:        o.TrialEndsAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func (m *OwnerMapper) ToModel(o *entity.Owner) *model.Owner {
	if o == nil {
		return nil
	}
	return &model.Owner{
		Id:                 o.Id,
		GymName:            o.GymName,
		Email:              o.Email,
		PasswordHash:       o.PasswordHash,
		SubscriptionStatus: string(o.SubscriptionStatus),
		TrialEndsAt:        o.TrialEndsAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
