package mapper

import (
	"sort"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/model"
)

type PlanMapper struct{}

func NewPlanMapper() *PlanMapper {
	return &PlanMapper{}
}

func (m *PlanMapper) ToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	return &entity.Plan{
		Id:             p.Id,
		OwnerId:        p.OwnerId,
		Name:           p.Name,
		DurationMonths: p.DurationMonths,
		Price:          p.Price,
		IsPopular:      p.IsPopular,
		IsActive:       p.IsActive,
		Features:       m.featureNames(p.Features),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToModel leaves Features empty; feature rows are written separately with replace-all semantics.
func (m *PlanMapper) ToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		Id:             p.Id,
		OwnerId:        p.OwnerId,
		Name:           p.Name,
		DurationMonths: p.DurationMonths,
		Price:          p.Price,
		IsPopular:      p.IsPopular,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m *PlanMapper) FeaturesToModels(plan *entity.Plan) []model.PlanFeature {
	features := make([]model.PlanFeature, len(plan.Features))
	for i, name := range plan.Features {
		features[i] = model.PlanFeature{PlanId: plan.Id, Name: name, Position: i}
	}
	return features
}

func (m *PlanMapper) featureNames(features []model.PlanFeature) []string {
	sorted := make([]model.PlanFeature, len(features))
	copy(sorted, features)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	names := make([]string, len(sorted))
	for i, f := range sorted {
		names[i] = f.Name
	}
	return names
}
