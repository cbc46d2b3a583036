package implementation

import (
	"context"
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/mapper"
	"gymflow-be/internal/model"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/scope"
	"gymflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckinRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CheckinMapper
}

func NewCheckinRepository(db *gorm.DB) contract.CheckinRepository {
	return &CheckinRepositoryImpl{
		db:     db,
		mapper: mapper.NewCheckinMapper(),
	}
}

func (r *CheckinRepositoryImpl) Create(ctx context.Context, record *entity.CheckinRecord) error {
	if record.Id == uuid.Nil {
		record.Id = uuid.New()
	}
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *CheckinRepositoryImpl) List(ctx context.Context, ownerId uuid.UUID, filter entity.CheckinFilter, page entity.PageQuery) ([]*entity.CheckinRecord, int64, error) {
	specs := []specification.Specification{
		specification.OwnedBy{OwnerID: ownerId},
		specification.ByStatus{Status: string(filter.Status)},
	}
	if filter.MemberId != nil {
		specs = append(specs, specification.ByMember{MemberID: *filter.MemberId})
	}

	var total int64
	if err := specification.Apply(r.db.WithContext(ctx).Model(&model.CheckinRecord{}), specs...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.CheckinRecord
	err := specification.Apply(r.db.WithContext(ctx), specs...).
		Scopes(scope.NewestFirst("checkin_records")).
		Scopes(specification.Pagination{Limit: page.Limit, Offset: page.Offset()}.Apply).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	records := make([]*entity.CheckinRecord, len(models))
	for i, m := range models {
		records[i] = r.mapper.ToEntity(m)
	}
	return records, total, nil
}

func (r *CheckinRepositoryImpl) CountSince(ctx context.Context, ownerId uuid.UUID, since time.Time, status entity.CheckinStatus) (int64, error) {
	var count int64
	err := specification.Apply(r.db.WithContext(ctx).Model(&model.CheckinRecord{}),
		specification.OwnedBy{OwnerID: ownerId},
		specification.CreatedSince{Since: since},
		specification.ByStatus{Status: string(status)},
	).Count(&count).Error
	return count, err
}
