// FILE: internal/dto/auth_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type OwnerRegisterRequest struct {
	GymName  string `json:"gymName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RotateCredentialRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type OwnerResponse struct {
	Id                 uuid.UUID `json:"id"`
	GymName            string    `json:"gymName"`
	Email              string    `json:"email"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	TrialEndsAt        time.Time `json:"trialEndsAt"`
	CreatedAt          time.Time `json:"createdAt"`
}

type AuthResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Role        string    `json:"role"`

	Owner  *OwnerResponse  `json:"owner,omitempty"`
	Member *MemberResponse `json:"member,omitempty"`
}
