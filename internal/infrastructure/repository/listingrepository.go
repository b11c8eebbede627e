package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"listcraft/internal/domain/listing"
	"listcraft/internal/infrastructure/persistence/mappers"
	"listcraft/internal/infrastructure/persistence/models"
	"listcraft/internal/shared/db"
	"listcraft/internal/shared/logger"
)

type ListingRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ListingMapper
	logger logger.Interface
}

func NewListingRepository(
	db *gorm.DB,
	logger logger.Interface,
) listing.ListingRepository {
	return &ListingRepositoryImpl{
		db:     db,
		mapper: mappers.NewListingMapper(),
		logger: logger,
	}
}

func (r *ListingRepositoryImpl) Create(ctx context.Context, listingEntity *listing.Listing) error {
	model, err := r.mapper.ToModel(listingEntity)
	if err != nil {
		return fmt.Errorf("failed to map listing entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create listing", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create listing: %w", err)
	}

	if err := listingEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set listing ID: %w", err)
	}

	return nil
}

func (r *ListingRepositoryImpl) GetByID(ctx context.Context, id uint) (*listing.Listing, error) {
	var model models.ListingModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get listing by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ListingRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*listing.Listing, error) {
	var listingModels []*models.ListingModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&listingModels).Error
	if err != nil {
		r.logger.Errorw("failed to list listings", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	return r.mapper.ToEntities(listingModels)
}

func (r *ListingRepositoryImpl) Update(ctx context.Context, listingEntity *listing.Listing) error {
	model, err := r.mapper.ToModel(listingEntity)
	if err != nil {
		return fmt.Errorf("failed to map listing entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ListingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":                 model.Title,
			"property_type":         model.PropertyType,
			"bedrooms":              model.Bedrooms,
			"bathrooms":             model.Bathrooms,
			"square_feet":           model.SquareFeet,
			"location":              model.Location,
			"features":              model.Features,
			"tone":                  model.Tone,
			"generated_description": model.GeneratedDescription,
			"status":                model.Status,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update listing", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return listing.ErrListingNotFound
	}

	return nil
}

func (r *ListingRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.ListingModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete listing", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return listing.ErrListingNotFound
	}
	return nil
}
