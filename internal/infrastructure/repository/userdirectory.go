package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"listcraft/internal/application/notification"
	"listcraft/internal/infrastructure/persistence/models"
	"listcraft/internal/shared/db"
	"listcraft/internal/shared/logger"
)

// UserDirectoryImpl reads contact details from the shared users table.
type UserDirectoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserDirectory(
	db *gorm.DB,
	logger logger.Interface,
) notification.UserDirectory {
	return &UserDirectoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UserDirectoryImpl) GetContact(ctx context.Context, userID uint) (*notification.UserContact, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user contact", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user contact: %w", err)
	}

	return &notification.UserContact{
		Email: model.Email,
		Name:  model.Name,
	}, nil
}
