package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"listcraft/internal/domain/billing"
	"listcraft/internal/infrastructure/persistence/models"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*billing.Plan, error)
	ToModel(entity *billing.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*billing.Plan, error)
}

type PlanMapperImpl struct{}

func NewPlanMapper() PlanMapper {
	return &PlanMapperImpl{}
}

func (m *PlanMapperImpl) ToEntity(model *models.PlanModel) (*billing.Plan, error) {
	if model == nil {
		return nil, nil
	}

	var features []string
	if model.Features != nil {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
		}
	}

	entity, err := billing.ReconstructPlan(
		model.ID,
		model.Name,
		model.Slug,
		model.Description,
		model.Price,
		model.Currency,
		model.DescriptionQuota,
		features,
		model.ProviderPriceID,
		model.ProviderProductID,
		model.Status,
		model.SortOrder,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}

	return entity, nil
}

func (m *PlanMapperImpl) ToModel(entity *billing.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	var featuresJSON datatypes.JSON
	if features := entity.Features(); len(features) > 0 {
		data, err := json.Marshal(features)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan features: %w", err)
		}
		featuresJSON = data
	}

	return &models.PlanModel{
		ID:                entity.ID(),
		Name:              entity.Name(),
		Slug:              entity.Slug(),
		Description:       entity.Description(),
		Price:             entity.Price(),
		Currency:          entity.Currency(),
		DescriptionQuota:  entity.DescriptionQuota(),
		Features:          featuresJSON,
		ProviderPriceID:   entity.ProviderPriceID(),
		ProviderProductID: entity.ProviderProductID(),
		Status:            string(entity.Status()),
		SortOrder:         entity.SortOrder(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}, nil
}

func (m *PlanMapperImpl) ToEntities(planModels []*models.PlanModel) ([]*billing.Plan, error) {
	entities := make([]*billing.Plan, 0, len(planModels))
	for _, model := range planModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
