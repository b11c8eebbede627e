package migration

import (
	"listcraft/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.UsageRecordModel{},
		&models.ListingModel{},
	}
}
