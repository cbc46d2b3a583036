package contract

import (
	"context"

	"gymflow-be/internal/entity"

	"github.com/google/uuid"
)

// RenewalRepository is append-only: there is no update or delete.
type RenewalRepository interface {
	Create(ctx context.Context, renewal *entity.Renewal) error
	FindAllByMember(ctx context.Context, ownerId, memberId uuid.UUID) ([]*entity.Renewal, error)
}
