package contract

import (
	"context"
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	// FindByID loads the member with its current renewal attached. Returns nil, nil when the
	// member does not exist or belongs to another owner.
	FindByID(ctx context.Context, ownerId, id uuid.UUID) (*entity.Member, error)
	FindByIDLocked(ctx context.Context, ownerId, id uuid.UUID, lock LockMode) (*entity.Member, error)
	// FindByEmail is global: email is unique across all owners.
	FindByEmail(ctx context.Context, email string) (*entity.Member, error)
	// MoveCurrentRenewal points the member at a freshly appended renewal and marks it active.
	MoveCurrentRenewal(ctx context.Context, memberId, renewalId uuid.UUID, membershipType string) error
	UpdateStatus(ctx context.Context, memberId uuid.UUID, status lifecycle.Status) error
	UpdateCredential(ctx context.Context, memberId uuid.UUID, hash string, mustRotate bool) error
	List(ctx context.Context, ownerId uuid.UUID, filter entity.MemberFilter, page entity.PageQuery) ([]*entity.Member, int64, error)
	// FindExpiring returns non-suspended members whose current period ends within [from, to].
	FindExpiring(ctx context.Context, ownerId uuid.UUID, from, to time.Time) ([]*entity.Member, error)
	CountByStatus(ctx context.Context, ownerId uuid.UUID, today time.Time) (entity.MemberStatusCounts, error)
}
