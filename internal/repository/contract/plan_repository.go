package contract

import (
	"context"

	"gymflow-be/internal/entity"

	"github.com/google/uuid"
)

// PlanRepository lookups are always owner-scoped; a plan of another owner is reported as absent.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	// Update writes scalar fields and replaces the whole feature set.
	Update(ctx context.Context, plan *entity.Plan) error
	SetActive(ctx context.Context, ownerId, id uuid.UUID, active bool) error
	Delete(ctx context.Context, ownerId, id uuid.UUID) error
	FindByID(ctx context.Context, ownerId, id uuid.UUID) (*entity.Plan, error)
	FindByName(ctx context.Context, ownerId uuid.UUID, name string) (*entity.Plan, error)
	// FindAllWithCounts aggregates member counts at read time.
	FindAllWithCounts(ctx context.Context, ownerId uuid.UUID) ([]*entity.PlanWithCount, error)
}
