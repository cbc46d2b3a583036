// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"strings"

	"gymflow-be/internal/config"
	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	RegisterOwner(ctx context.Context, req *dto.OwnerRegisterRequest) (*dto.AuthResponse, error)
	LoginOwner(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	LoginMember(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RotateMemberCredential(ctx context.Context, ownerId, memberId uuid.UUID, req *dto.RotateCredentialRequest) error
	GetOwner(ctx context.Context, ownerId uuid.UUID) (*dto.OwnerResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *lifecycle.Engine
	limiter    *memory.LoginLimiter
	ownerCache *memory.OwnerCache
	cfg        config.AuthConfig
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	engine *lifecycle.Engine,
	limiter *memory.LoginLimiter,
	ownerCache *memory.OwnerCache,
	cfg config.AuthConfig,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		engine:     engine,
		limiter:    limiter,
		ownerCache: ownerCache,
		cfg:        cfg,
		logger:     log,
	}
}

var errInvalidCredentials = apperror.Unauthorized("Invalid email or password")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) RegisterOwner(ctx context.Context, req *dto.OwnerRegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.OwnerRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := s.engine.Now().UTC()
	owner := &entity.Owner{
		Id:                 uuid.New(),
		GymName:            strings.TrimSpace(req.GymName),
		Email:              email,
		PasswordHash:       string(hash),
		SubscriptionStatus: lifecycle.OwnerStatusTrial,
		TrialEndsAt:        s.engine.TrialEnd(now),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uow.OwnerRepository().Create(ctx, owner); err != nil {
		return nil, storeError(err)
	}
	s.ownerCache.SaveGymName(owner.Id, owner.GymName)

	s.logger.Info("AuthService", "Owner registered", map[string]interface{}{"owner_id": owner.Id})
	return s.ownerSession(owner, owner.SubscriptionStatus)
}

// LoginOwner persists a lapsed trial the first time it is noticed. An expired owner can still
// sign in; what they may do is decided elsewhere.
func (s *authService) LoginOwner(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if !s.limiter.Allow("owner:" + email) {
		return nil, apperror.TooManyRequests("Too many login attempts, try again in a minute")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	owner, err := uow.OwnerRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if owner == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	status := s.engine.OwnerState(owner.SubscriptionStatus, owner.TrialEndsAt, s.engine.Now())
	if status != owner.SubscriptionStatus {
		if err := uow.OwnerRepository().UpdateStatus(ctx, owner.Id, status); err != nil {
			// The read path recomputes anyway, so a failed write only delays the flip.
			s.logger.Warn("AuthService", "Failed to persist owner status", map[string]interface{}{"owner_id": owner.Id, "error": err.Error()})
		} else {
			s.logger.Info("AuthService", "Owner trial expired", map[string]interface{}{"owner_id": owner.Id})
		}
	}
	s.ownerCache.SaveGymName(owner.Id, owner.GymName)

	return s.ownerSession(owner, status)
}

func (s *authService) LoginMember(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if !s.limiter.Allow("member:" + email) {
		return nil, apperror.TooManyRequests("Too many login attempts, try again in a minute")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	member, err := uow.MemberRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if member == nil || member.CredentialHash == "" {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.CredentialHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := serverutils.IssueToken(s.cfg.JWTSecret, s.cfg.TokenTTL, serverutils.Claims{
		OwnerId:  member.OwnerId.String(),
		MemberId: member.Id.String(),
		Role:     serverutils.RoleMember,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Role:        serverutils.RoleMember,
		Member:      toMemberResponse(s.engine, member, s.engine.Now()),
	}, nil
}

func (s *authService) RotateMemberCredential(ctx context.Context, ownerId, memberId uuid.UUID, req *dto.RotateCredentialRequest) error {
	if req.CurrentPassword == req.NewPassword {
		return apperror.Invalid("newPassword", "Must differ from the current password")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	member, err := uow.MemberRepository().FindByID(ctx, ownerId, memberId)
	if err != nil {
		return storeError(err)
	}
	if member == nil {
		return apperror.NotFound("Member")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.CredentialHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.Invalid("currentPassword", "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := uow.MemberRepository().UpdateCredential(ctx, memberId, string(hash), false); err != nil {
		return storeError(err)
	}

	s.logger.Info("AuthService", "Member credential rotated", map[string]interface{}{"member_id": memberId})
	return nil
}

// GetOwner recomputes the subscription status instead of trusting the stored column.
func (s *authService) GetOwner(ctx context.Context, ownerId uuid.UUID) (*dto.OwnerResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	owner, err := uow.OwnerRepository().FindByID(ctx, ownerId)
	if err != nil {
		return nil, storeError(err)
	}
	if owner == nil {
		return nil, apperror.NotFound("Owner")
	}
	status := s.engine.OwnerState(owner.SubscriptionStatus, owner.TrialEndsAt, s.engine.Now())
	return toOwnerResponse(owner, status), nil
}

func (s *authService) ownerSession(owner *entity.Owner, status lifecycle.OwnerStatus) (*dto.AuthResponse, error) {
	token, expiresAt, err := serverutils.IssueToken(s.cfg.JWTSecret, s.cfg.TokenTTL, serverutils.Claims{
		OwnerId: owner.Id.String(),
		Role:    serverutils.RoleOwner,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Role:        serverutils.RoleOwner,
		Owner:       toOwnerResponse(owner, status),
	}, nil
}
