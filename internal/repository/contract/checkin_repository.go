package contract

import (
	"context"
	"time"

	"gymflow-be/internal/entity"

	"github.com/google/uuid"
)

// CheckinRepository is append-only.
type CheckinRepository interface {
	Create(ctx context.Context, record *entity.CheckinRecord) error
	List(ctx context.Context, ownerId uuid.UUID, filter entity.CheckinFilter, page entity.PageQuery) ([]*entity.CheckinRecord, int64, error)
	CountSince(ctx context.Context, ownerId uuid.UUID, since time.Time, status entity.CheckinStatus) (int64, error)
}
