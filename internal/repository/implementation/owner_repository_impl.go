package implementation

import (
	"context"
	"errors"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/mapper"
	"gymflow-be/internal/model"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/specification"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OwnerMapper
}

func NewOwnerRepository(db *gorm.DB) contract.OwnerRepository {
	return &OwnerRepositoryImpl{
		db:     db,
		mapper: mapper.NewOwnerMapper(),
	}
}

func (r *OwnerRepositoryImpl) Create(ctx context.Context, owner *entity.Owner) error {
	m := r.mapper.ToModel(owner)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*owner = *r.mapper.ToEntity(m)
	return nil
}

func (r *OwnerRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *OwnerRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.Owner, error) {
	return r.findOne(ctx, specification.ByEmail{Email: email})
}

func (r *OwnerRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status lifecycle.OwnerStatus) error {
	return r.db.WithContext(ctx).Model(&model.Owner{}).
		Where("id = ?", id).
		Update("subscription_status", string(status)).Error
}

func (r *OwnerRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Owner, error) {
	var m model.Owner
	if err := specification.Apply(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
