package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"listcraft/internal/domain/billing"
	"listcraft/internal/infrastructure/persistence/mappers"
	"listcraft/internal/infrastructure/persistence/models"
	"listcraft/internal/shared/db"
	"listcraft/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *billing.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created", "id", model.ID, "user_id", model.UserID, "plan_id", model.PlanID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*billing.Subscription, error) {
	var model models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by user ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*billing.Subscription, error) {
	var model models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("provider_subscription_id = ?", providerSubscriptionID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by provider ID",
			"provider_subscription_id", providerSubscriptionID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByUserIDForUpdate(ctx context.Context, userID uint) (*billing.Subscription, error) {
	var model models.SubscriptionModel

	err := lockForUpdate(db.GetTxFromContext(ctx, r.db)).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to lock subscription row", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *billing.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"plan_id":                  model.PlanID,
			"provider_customer_id":     model.ProviderCustomerID,
			"provider_subscription_id": model.ProviderSubscriptionID,
			"status":                   model.Status,
			"current_period_start":     model.CurrentPeriodStart,
			"current_period_end":       model.CurrentPeriodEnd,
			"trial_end":                model.TrialEnd,
			"cancel_at_period_end":     model.CancelAtPeriodEnd,
			"canceled_at":              model.CanceledAt,
			"trial_notice_sent_at":     model.TrialNoticeSentAt,
			"version":                  model.Version,
			"updated_at":               model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) FindTrialsEndingBefore(ctx context.Context, deadline time.Time) ([]*billing.Subscription, error) {
	var subscriptionModels []*models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", "trialing").
		Where("trial_end IS NOT NULL AND trial_end < ?", deadline).
		Where("trial_notice_sent_at IS NULL").
		Find(&subscriptionModels).Error
	if err != nil {
		r.logger.Errorw("failed to find ending trials", "error", err)
		return nil, fmt.Errorf("failed to find ending trials: %w", err)
	}

	return r.mapper.ToEntities(subscriptionModels)
}
