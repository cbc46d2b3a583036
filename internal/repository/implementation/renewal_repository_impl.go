package implementation

import (
	"context"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/mapper"
	"gymflow-be/internal/model"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RenewalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RenewalMapper
}

func NewRenewalRepository(db *gorm.DB) contract.RenewalRepository {
	return &RenewalRepositoryImpl{
		db:     db,
		mapper: mapper.NewRenewalMapper(),
	}
}

func (r *RenewalRepositoryImpl) Create(ctx context.Context, renewal *entity.Renewal) error {
	if renewal.Id == uuid.Nil {
		renewal.Id = uuid.New()
	}
	m := r.mapper.ToModel(renewal)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*renewal = *r.mapper.ToEntity(m)
	return nil
}

// FindAllByMember returns the ledger newest first.
func (r *RenewalRepositoryImpl) FindAllByMember(ctx context.Context, ownerId, memberId uuid.UUID) ([]*entity.Renewal, error) {
	var models []*model.Renewal
	err := specification.Apply(r.db.WithContext(ctx),
		specification.OwnedBy{OwnerID: ownerId},
		specification.ByMember{MemberID: memberId},
	).Order("renewal_date DESC").Order("created_at DESC").Find(&models).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Renewal, len(models))
	for i, m := range models {
		result[i] = r.mapper.ToEntity(m)
	}
	return result, nil
}
