package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"listcraft/internal/domain/billing"
	"listcraft/internal/infrastructure/persistence/mappers"
	"listcraft/internal/infrastructure/persistence/models"
	"listcraft/internal/shared/db"
	"listcraft/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, planEntity *billing.Plan) error {
	model, err := r.mapper.ToModel(planEntity)
	if err != nil {
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "slug", model.Slug, "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := planEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set plan ID: %w", err)
	}

	r.logger.Infow("plan created", "id", model.ID, "slug", model.Slug)
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*billing.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*billing.Plan, error) {
	var model models.PlanModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("slug = ?", slug).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) GetByProviderPriceID(ctx context.Context, priceID string) (*billing.Plan, error) {
	if priceID == "" {
		return nil, nil
	}

	var model models.PlanModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("provider_price_id = ?", priceID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by provider price", "price_id", priceID, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) GetActivePlans(ctx context.Context) ([]*billing.Plan, error) {
	var planModels []*models.PlanModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", "active").
		Order("sort_order ASC").
		Find(&planModels).Error
	if err != nil {
		r.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	return r.mapper.ToEntities(planModels)
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, planEntity *billing.Plan) error {
	model, err := r.mapper.ToModel(planEntity)
	if err != nil {
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PlanModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":                model.Name,
			"description":         model.Description,
			"price":               model.Price,
			"currency":            model.Currency,
			"description_quota":   model.DescriptionQuota,
			"features":            model.Features,
			"provider_price_id":   model.ProviderPriceID,
			"provider_product_id": model.ProviderProductID,
			"status":              model.Status,
			"sort_order":          model.SortOrder,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrPlanNotFound
	}

	return nil
}

func (r *PlanRepositoryImpl) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.PlanModel{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check plan slug: %w", err)
	}

	return count > 0, nil
}
