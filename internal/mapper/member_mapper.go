package mapper

import (
	"gymflow-be/internal/entity"
	"gymflow-be/internal/model"
	"gymflow-be/pkg/lifecycle"
)

type MemberMapper struct{}

func NewMemberMapper() *MemberMapper {
	return &MemberMapper{}
}

func (m *MemberMapper) ToEntity(mb *model.Member) *entity.Member {
	if mb == nil {
		return nil
	}
	return &entity.Member{
		Id:                   mb.Id,
		OwnerId:              mb.OwnerId,
		Name:                 mb.Name,
		Email:                mb.Email,
		Phone:                mb.Phone,
		Address:              mb.Address,
		DateOfBirth:          mb.DateOfBirth,
		Gender:               entity.Gender(mb.Gender),
		MembershipStatus:     lifecycle.Status(mb.MembershipStatus),
		MembershipType:       mb.MembershipType,
		CurrentRenewalId:     mb.CurrentRenewalId,
		CredentialHash:       mb.CredentialHash,
		MustRotateCredential: mb.MustRotateCredential,
		CreatedAt:            mb.CreatedAt,
		UpdatedAt:            mb.UpdatedAt,
	}
}

func (m *MemberMapper) ToModel(mb *entity.Member) *model.Member {
	if mb == nil {
		return nil
	}
	return &model.Member{
		Id:                   mb.Id,
		OwnerId:              mb.OwnerId,
		Name:                 mb.Name,
		Email:                mb.Email,
		Phone:                mb.Phone,
		Address:              mb.Address,
		DateOfBirth:          mb.DateOfBirth,
		Gender:               string(mb.Gender),
		MembershipStatus:     string(mb.MembershipStatus),
		MembershipType:       mb.MembershipType,
		CurrentRenewalId:     mb.CurrentRenewalId,
		CredentialHash:       mb.CredentialHash,
		MustRotateCredential: mb.MustRotateCredential,
		CreatedAt:            mb.CreatedAt,
		UpdatedAt:            mb.UpdatedAt,
	}
}
