package service

import (
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/pkg/lifecycle"
)

func toOwnerResponse(o *entity.Owner, status lifecycle.OwnerStatus) *dto.OwnerResponse {
	return &dto.OwnerResponse{
		Id:                 o.Id,
		GymName:            o.GymName,
		Email:              o.Email,
		SubscriptionStatus: string(status),
		TrialEndsAt:        o.TrialEndsAt,
		CreatedAt:          o.CreatedAt,
	}
}

func toPlanResponse(p *entity.Plan) *dto.PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &dto.PlanResponse{
		Id:             p.Id,
		Name:           p.Name,
		DurationMonths: p.DurationMonths,
		Price:          p.Price,
		IsPopular:      p.IsPopular,
		IsActive:       p.IsActive,
		Features:       features,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toRenewalResponse(r *entity.Renewal) *dto.RenewalResponse {
	if r == nil {
		return nil
	}
	return &dto.RenewalResponse{
		Id:           r.Id,
		PlanId:       r.PlanId,
		PlanName:     r.PlanName,
		RenewalDate:  dto.FormatDate(&r.RenewalDate),
		ExpiryDate:   dto.FormatDate(&r.ExpiryDate),
		ExpireInDays: r.ExpireInDays,
		CreatedAt:    r.CreatedAt,
	}
}

// toMemberResponse derives status and days remaining at read time; the stored status column is
// only trusted for suspension.
func toMemberResponse(engine *lifecycle.Engine, m *entity.Member, now time.Time) *dto.MemberResponse {
	var expiry *time.Time
	var daysRemaining *int
	if m.CurrentRenewal != nil {
		expiry = &m.CurrentRenewal.ExpiryDate
		days := engine.DaysRemaining(*expiry, now)
		daysRemaining = &days
	}

	return &dto.MemberResponse{
		Id:                   m.Id,
		Name:                 m.Name,
		Email:                m.Email,
		Phone:                m.Phone,
		Address:              m.Address,
		DateOfBirth:          dto.FormatDate(m.DateOfBirth),
		Gender:               string(m.Gender),
		MembershipStatus:     string(engine.Effective(m.MembershipStatus, expiry, now)),
		MembershipType:       m.MembershipType,
		DaysRemaining:        daysRemaining,
		CurrentRenewal:       toRenewalResponse(m.CurrentRenewal),
		MustRotateCredential: m.MustRotateCredential,
		CreatedAt:            m.CreatedAt,
	}
}

func toCheckinResponse(r *entity.CheckinRecord) *dto.CheckinResponse {
	return &dto.CheckinResponse{
		Id:        r.Id,
		MemberId:  r.MemberId,
		Admitted:  r.Status == entity.CheckinStatusSuccess,
		Status:    string(r.Status),
		Reason:    string(r.Reason),
		CreatedAt: r.CreatedAt,
	}
}
