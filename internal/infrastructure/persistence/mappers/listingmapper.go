package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"listcraft/internal/domain/listing"
	"listcraft/internal/infrastructure/persistence/models"
)

type ListingMapper interface {
	ToEntity(model *models.ListingModel) (*listing.Listing, error)
	ToModel(entity *listing.Listing) (*models.ListingModel, error)
	ToEntities(models []*models.ListingModel) ([]*listing.Listing, error)
}

type ListingMapperImpl struct{}

func NewListingMapper() ListingMapper {
	return &ListingMapperImpl{}
}

func (m *ListingMapperImpl) ToEntity(model *models.ListingModel) (*listing.Listing, error) {
	if model == nil {
		return nil, nil
	}

	var features []string
	if model.Features != nil {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal listing features: %w", err)
		}
	}

	entity, err := listing.ReconstructListing(
		model.ID,
		model.UserID,
		model.Title,
		model.PropertyType,
		model.Bedrooms,
		model.Bathrooms,
		model.SquareFeet,
		model.Location,
		features,
		model.Tone,
		model.GeneratedDescription,
		model.Status,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct listing entity: %w", err)
	}

	return entity, nil
}

func (m *ListingMapperImpl) ToModel(entity *listing.Listing) (*models.ListingModel, error) {
	if entity == nil {
		return nil, nil
	}

	var featuresJSON datatypes.JSON
	if features := entity.Features(); len(features) > 0 {
		data, err := json.Marshal(features)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal listing features: %w", err)
		}
		featuresJSON = data
	}

	return &models.ListingModel{
		ID:                   entity.ID(),
		UserID:               entity.UserID(),
		Title:                entity.Title(),
		PropertyType:         entity.PropertyType(),
		Bedrooms:             entity.Bedrooms(),
		Bathrooms:            entity.Bathrooms(),
		SquareFeet:           entity.SquareFeet(),
		Location:             entity.Location(),
		Features:             featuresJSON,
		Tone:                 string(entity.Tone()),
		GeneratedDescription: entity.GeneratedDescription(),
		Status:               string(entity.Status()),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

func (m *ListingMapperImpl) ToEntities(listingModels []*models.ListingModel) ([]*listing.Listing, error) {
	entities := make([]*listing.Listing, 0, len(listingModels))
	for _, model := range listingModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
