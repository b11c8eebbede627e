package mappers

import (
	"fmt"

	"listcraft/internal/domain/billing"
	"listcraft/internal/infrastructure/persistence/models"
)

type UsageRecordMapper interface {
	ToEntity(model *models.UsageRecordModel) (*billing.UsageRecord, error)
	ToModel(entity *billing.UsageRecord) (*models.UsageRecordModel, error)
	ToEntities(models []*models.UsageRecordModel) ([]*billing.UsageRecord, error)
}

type UsageRecordMapperImpl struct{}

func NewUsageRecordMapper() UsageRecordMapper {
	return &UsageRecordMapperImpl{}
}

func (m *UsageRecordMapperImpl) ToEntity(model *models.UsageRecordModel) (*billing.UsageRecord, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := billing.ReconstructUsageRecord(
		model.ID,
		model.UserID,
		model.PeriodStart.UTC(),
		model.PeriodEnd.UTC(),
		model.DescriptionsGenerated,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct usage record entity: %w", err)
	}

	return entity, nil
}

func (m *UsageRecordMapperImpl) ToModel(entity *billing.UsageRecord) (*models.UsageRecordModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UsageRecordModel{
		ID:                    entity.ID(),
		UserID:                entity.UserID(),
		PeriodStart:           entity.PeriodStart(),
		PeriodEnd:             entity.PeriodEnd(),
		DescriptionsGenerated: entity.DescriptionsGenerated(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}, nil
}

func (m *UsageRecordMapperImpl) ToEntities(recordModels []*models.UsageRecordModel) ([]*billing.UsageRecord, error) {
	entities := make([]*billing.UsageRecord, 0, len(recordModels))
	for _, model := range recordModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
