package mappers

import (
	"fmt"

	"listcraft/internal/domain/billing"
	vo "listcraft/internal/domain/billing/valueobjects"
	"listcraft/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error)
	ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*billing.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	entity, err := billing.ReconstructSubscription(
		model.ID,
		model.UserID,
		model.PlanID,
		model.ProviderCustomerID,
		model.ProviderSubscriptionID,
		status,
		model.CurrentPeriodStart,
		model.CurrentPeriodEnd,
		model.TrialEnd,
		model.CancelAtPeriodEnd,
		model.CanceledAt,
		model.TrialNoticeSentAt,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SubscriptionModel{
		ID:                     entity.ID(),
		UserID:                 entity.UserID(),
		PlanID:                 entity.PlanID(),
		ProviderCustomerID:     entity.ProviderCustomerID(),
		ProviderSubscriptionID: entity.ProviderSubscriptionID(),
		Status:                 entity.Status().String(),
		CurrentPeriodStart:     entity.CurrentPeriodStart(),
		CurrentPeriodEnd:       entity.CurrentPeriodEnd(),
		TrialEnd:               entity.TrialEnd(),
		CancelAtPeriodEnd:      entity.CancelAtPeriodEnd(),
		CanceledAt:             entity.CanceledAt(),
		TrialNoticeSentAt:      entity.TrialNoticeSentAt(),
		Version:                entity.Version(),
		CreatedAt:              entity.CreatedAt(),
		UpdatedAt:              entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(subscriptionModels []*models.SubscriptionModel) ([]*billing.Subscription, error) {
	entities := make([]*billing.Subscription, 0, len(subscriptionModels))
	for _, model := range subscriptionModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
