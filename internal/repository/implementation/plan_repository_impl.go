package implementation

import (
	"context"
	"errors"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/mapper"
	"gymflow-be/internal/model"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/scope"
	"gymflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlanMapper
}

func NewPlanRepository(db *gorm.DB) contract.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlanMapper(),
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *entity.Plan) error {
	if plan.Id == uuid.Nil {
		plan.Id = uuid.New()
	}
	m := r.mapper.ToModel(plan)
	m.Features = r.mapper.FeaturesToModels(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.ToEntity(m)
	return nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *entity.Plan) error {
	db := r.db.WithContext(ctx)

	res := db.Model(&model.Plan{}).
		Where("id = ? AND owner_id = ?", plan.Id, plan.OwnerId).
		Updates(map[string]interface{}{
			"name":            plan.Name,
			"duration_months": plan.DurationMonths,
			"price":           plan.Price,
			"is_popular":      plan.IsPopular,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := db.Where("plan_id = ?", plan.Id).Delete(&model.PlanFeature{}).Error; err != nil {
		return err
	}
	if features := r.mapper.FeaturesToModels(plan); len(features) > 0 {
		if err := db.Create(&features).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PlanRepositoryImpl) SetActive(ctx context.Context, ownerId, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Plan{}).
		Where("id = ? AND owner_id = ?", id, ownerId).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PlanRepositoryImpl) Delete(ctx context.Context, ownerId, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerId).
		Delete(&model.Plan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PlanRepositoryImpl) FindByID(ctx context.Context, ownerId, id uuid.UUID) (*entity.Plan, error) {
	return r.findOne(ctx, specification.ByID{ID: id}, specification.OwnedBy{OwnerID: ownerId})
}

func (r *PlanRepositoryImpl) FindByName(ctx context.Context, ownerId uuid.UUID, name string) (*entity.Plan, error) {
	return r.findOne(ctx, specification.OwnedBy{OwnerID: ownerId}, specification.Filter("LOWER(name)", lower(name)))
}

type planMemberCount struct {
	PlanId uuid.UUID
	Count  int64
}

func (r *PlanRepositoryImpl) FindAllWithCounts(ctx context.Context, ownerId uuid.UUID) ([]*entity.PlanWithCount, error) {
	db := r.db.WithContext(ctx)

	var plans []*model.Plan
	err := specification.Apply(db, specification.OwnedBy{OwnerID: ownerId}).
		Preload("Features").
		Scopes(scope.OldestFirst("plans")).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}

	// Members whose current renewal was bought on each plan.
	var counts []planMemberCount
	err = db.Table("members").
		Select("cr.plan_id AS plan_id, COUNT(*) AS count").
		Joins("JOIN renewals cr ON cr.id = members.current_renewal_id").
		Where("members.owner_id = ? AND cr.plan_id IS NOT NULL", ownerId).
		Group("cr.plan_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byPlan := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byPlan[c.PlanId] = c.Count
	}

	result := make([]*entity.PlanWithCount, len(plans))
	for i, p := range plans {
		result[i] = &entity.PlanWithCount{
			Plan:        *r.mapper.ToEntity(p),
			MemberCount: byPlan[p.Id],
		}
	}
	return result, nil
}

func (r *PlanRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	var m model.Plan
	query := specification.Apply(r.db.WithContext(ctx), specs...).Preload("Features")
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
