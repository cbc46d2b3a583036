package contract

import (
	"context"

	"gymflow-be/internal/entity"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
)

type OwnerRepository interface {
	Create(ctx context.Context, owner *entity.Owner) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error)
	FindByEmail(ctx context.Context, email string) (*entity.Owner, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status lifecycle.OwnerStatus) error
}
