package implementation

import (
	"context"
	"errors"
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/mapper"
	"gymflow-be/internal/model"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/scope"
	"gymflow-be/internal/repository/specification"
	"gymflow-be/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepositoryImpl struct {
	db            *gorm.DB
	mapper        *mapper.MemberMapper
	renewalMapper *mapper.RenewalMapper
}

func NewMemberRepository(db *gorm.DB) contract.MemberRepository {
	return &MemberRepositoryImpl{
		db:            db,
		mapper:        mapper.NewMemberMapper(),
		renewalMapper: mapper.NewRenewalMapper(),
	}
}

func (r *MemberRepositoryImpl) Create(ctx context.Context, member *entity.Member) error {
	if member.Id == uuid.Nil {
		member.Id = uuid.New()
	}
	m := r.mapper.ToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	created := r.mapper.ToEntity(m)
	created.CurrentRenewal = member.CurrentRenewal
	*member = *created
	return nil
}

func (r *MemberRepositoryImpl) FindByID(ctx context.Context, ownerId, id uuid.UUID) (*entity.Member, error) {
	return r.FindByIDLocked(ctx, ownerId, id, contract.LockNone)
}

func (r *MemberRepositoryImpl) FindByIDLocked(ctx context.Context, ownerId, id uuid.UUID, lock contract.LockMode) (*entity.Member, error) {
	db := r.db.WithContext(ctx)
	if lock != contract.LockNone {
		db = db.Clauses(clause.Locking{Strength: string(lock)})
	}

	var m model.Member
	err := specification.Apply(db, specification.ByID{ID: id}, specification.OwnedBy{OwnerID: ownerId}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	member := r.mapper.ToEntity(&m)
	if err := r.attachCurrentRenewals(ctx, []*entity.Member{member}); err != nil {
		return nil, err
	}
	return member, nil
}

func (r *MemberRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	var m model.Member
	err := specification.Apply(r.db.WithContext(ctx), specification.ByEmail{Email: email}).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	member := r.mapper.ToEntity(&m)
	if err := r.attachCurrentRenewals(ctx, []*entity.Member{member}); err != nil {
		return nil, err
	}
	return member, nil
}

func (r *MemberRepositoryImpl) MoveCurrentRenewal(ctx context.Context, memberId, renewalId uuid.UUID, membershipType string) error {
	res := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", memberId).
		Updates(map[string]interface{}{
			"current_renewal_id": renewalId,
			"membership_type":    membershipType,
			"membership_status":  string(lifecycle.StatusActive),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MemberRepositoryImpl) UpdateStatus(ctx context.Context, memberId uuid.UUID, status lifecycle.Status) error {
	return r.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", memberId).
		Update("membership_status", string(status)).Error
}

func (r *MemberRepositoryImpl) UpdateCredential(ctx context.Context, memberId uuid.UUID, hash string, mustRotate bool) error {
	return r.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", memberId).
		Updates(map[string]interface{}{
			"credential_hash":        hash,
			"must_rotate_credential": mustRotate,
		}).Error
}

func (r *MemberRepositoryImpl) List(ctx context.Context, ownerId uuid.UUID, filter entity.MemberFilter, page entity.PageQuery) ([]*entity.Member, int64, error) {
	specs := []specification.Specification{
		specification.OwnedBy{OwnerID: ownerId, Table: "members"},
		specification.MemberSearch{Query: filter.Search},
		specification.MemberType{Type: filter.MembershipType},
		specification.MemberGender{Gender: string(filter.Gender)},
		specification.MemberDerivedStatus{Status: filter.MembershipStatus, Today: filter.Today},
	}

	base := func() *gorm.DB {
		return specification.Apply(
			r.db.WithContext(ctx).Model(&model.Member{}).Joins(specification.CurrentRenewalJoin),
			specs...,
		)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.Member
	err := base().
		Select("members.*").
		Scopes(scope.NewestFirst("members")).
		Scopes(specification.Pagination{Limit: page.Limit, Offset: page.Offset()}.Apply).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	members := r.toEntities(models)
	if err := r.attachCurrentRenewals(ctx, members); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *MemberRepositoryImpl) FindExpiring(ctx context.Context, ownerId uuid.UUID, from, to time.Time) ([]*entity.Member, error) {
	var models []*model.Member
	err := specification.Apply(
		r.db.WithContext(ctx).Model(&model.Member{}).Joins(specification.CurrentRenewalJoin),
		specification.OwnedBy{OwnerID: ownerId, Table: "members"},
		specification.ExpiringBetween{From: from, To: to},
	).Select("members.*").Order("cr.expiry_date ASC").Order("members.id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}

	members := r.toEntities(models)
	if err := r.attachCurrentRenewals(ctx, members); err != nil {
		return nil, err
	}
	return members, nil
}

type memberStatusRow struct {
	Active    int64
	Expired   int64
	Suspended int64
}

func (r *MemberRepositoryImpl) CountByStatus(ctx context.Context, ownerId uuid.UUID, today time.Time) (entity.MemberStatusCounts, error) {
	var row memberStatusRow
	err := r.db.WithContext(ctx).Model(&model.Member{}).
		Joins(specification.CurrentRenewalJoin).
		Select(`
			COUNT(*) FILTER (WHERE members.membership_status = @suspended) AS suspended,
			COUNT(*) FILTER (WHERE members.membership_status <> @suspended AND cr.expiry_date >= @today) AS active,
			COUNT(*) FILTER (WHERE members.membership_status <> @suspended AND (cr.id IS NULL OR cr.expiry_date < @today)) AS expired`,
			map[string]interface{}{"suspended": string(lifecycle.StatusSuspended), "today": today},
		).
		Where("members.owner_id = ?", ownerId).
		Scan(&row).Error
	if err != nil {
		return entity.MemberStatusCounts{}, err
	}
	return entity.MemberStatusCounts{Active: row.Active, Expired: row.Expired, Suspended: row.Suspended}, nil
}

func (r *MemberRepositoryImpl) toEntities(models []*model.Member) []*entity.Member {
	members := make([]*entity.Member, len(models))
	for i, m := range models {
		members[i] = r.mapper.ToEntity(m)
	}
	return members
}

// attachCurrentRenewals loads every referenced current renewal in one query.
func (r *MemberRepositoryImpl) attachCurrentRenewals(ctx context.Context, members []*entity.Member) error {
	var ids []uuid.UUID
	for _, m := range members {
		if m.CurrentRenewalId != nil {
			ids = append(ids, *m.CurrentRenewalId)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var renewals []*model.Renewal
	if err := specification.Apply(r.db.WithContext(ctx), specification.ByIDs{IDs: ids}).Find(&renewals).Error; err != nil {
		return err
	}

	byId := make(map[uuid.UUID]*entity.Renewal, len(renewals))
	for _, rn := range renewals {
		byId[rn.Id] = r.renewalMapper.ToEntity(rn)
	}
	for _, m := range members {
		if m.CurrentRenewalId != nil {
			m.CurrentRenewal = byId[*m.CurrentRenewalId]
		}
	}
	return nil
}
