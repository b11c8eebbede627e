package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"listcraft/internal/domain/billing"
	"listcraft/internal/infrastructure/persistence/mappers"
	"listcraft/internal/infrastructure/persistence/models"
	"listcraft/internal/shared/billingperiod"
	"listcraft/internal/shared/db"
	"listcraft/internal/shared/logger"
)

type UsageRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UsageRecordMapper
	logger logger.Interface
}

func NewUsageRecordRepository(
	db *gorm.DB,
	logger logger.Interface,
) billing.UsageRecordRepository {
	return &UsageRecordRepositoryImpl{
		db:     db,
		mapper: mappers.NewUsageRecordMapper(),
		logger: logger,
	}
}

func (r *UsageRecordRepositoryImpl) GetOrCreateCurrent(ctx context.Context, userID uint) (*billing.UsageRecord, error) {
	period := billingperiod.Current(time.Now())

	record, err := r.getByPeriodStart(ctx, userID, period.Start, false)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	entity, err := billing.NewUsageRecord(userID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to map usage record entity: %w", err)
	}

	createErr := db.GetTxFromContext(ctx, r.db).Create(model).Error
	if createErr != nil {
		// A concurrent request may have created the row first; the unique
		// (user_id, period_start) index rejected ours. Re-read and use theirs.
		record, err := r.getByPeriodStart(ctx, userID, period.Start, false)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
		r.logger.Errorw("failed to create usage record", "user_id", userID, "error", createErr)
		return nil, fmt.Errorf("failed to create usage record: %w", createErr)
	}

	if err := entity.SetID(model.ID); err != nil {
		return nil, fmt.Errorf("failed to set usage record ID: %w", err)
	}

	r.logger.Infow("usage record opened",
		"user_id", userID,
		"period_start", period.Start,
	)
	return entity, nil
}

func (r *UsageRecordRepositoryImpl) GetCurrent(ctx context.Context, userID uint) (*billing.UsageRecord, error) {
	period := billingperiod.Current(time.Now())
	return r.getByPeriodStart(ctx, userID, period.Start, false)
}

func (r *UsageRecordRepositoryImpl) GetCurrentForUpdate(ctx context.Context, userID uint) (*billing.UsageRecord, error) {
	// Create outside the lock first so the locked read always finds a row.
	if _, err := r.GetOrCreateCurrent(ctx, userID); err != nil {
		return nil, err
	}

	period := billingperiod.Current(time.Now())
	record, err := r.getByPeriodStart(ctx, userID, period.Start, true)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, billing.ErrUsageRecordNotFound
	}
	return record, nil
}

func (r *UsageRecordRepositoryImpl) IncrementUsage(ctx context.Context, recordID uint, delta uint64) (uint64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.UsageRecordModel{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"descriptions_generated": gorm.Expr("descriptions_generated + ?", delta),
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment usage", "record_id", recordID, "error", result.Error)
		return 0, fmt.Errorf("failed to increment usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, billing.ErrUsageRecordNotFound
	}

	var model models.UsageRecordModel
	if err := tx.First(&model, recordID).Error; err != nil {
		return 0, fmt.Errorf("failed to read usage after increment: %w", err)
	}

	return model.DescriptionsGenerated, nil
}

func (r *UsageRecordRepositoryImpl) GetHistory(ctx context.Context, userID uint, from, to time.Time) ([]*billing.UsageRecord, error) {
	var recordModels []*models.UsageRecordModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Where("period_start < ? AND period_end > ?", to, from).
		Order("period_start DESC").
		Find(&recordModels).Error
	if err != nil {
		r.logger.Errorw("failed to get usage history", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get usage history: %w", err)
	}

	return r.mapper.ToEntities(recordModels)
}

func (r *UsageRecordRepositoryImpl) getByPeriodStart(ctx context.Context, userID uint, periodStart time.Time, lock bool) (*billing.UsageRecord, error) {
	var model models.UsageRecordModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND period_start = ?", userID, periodStart)
	if lock {
		query = lockForUpdate(query)
	}

	if err := query.First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get usage record", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}

	return r.mapper.ToEntity(&model)
}
