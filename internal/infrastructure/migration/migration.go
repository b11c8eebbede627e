package migration

import (
	"fmt"

	"gorm.io/gorm"

	"listcraft/internal/shared/logger"
)

// Migrator applies the schema to the target database.
type Migrator struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger.NewLogger().With("component", "migration"),
	}
}

// Run migrates every registered model.
func (m *Migrator) Run() error {
	models := AutoMigrateModels()
	m.logger.Infow("running schema migration", "models", len(models))

	if err := m.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	m.logger.Infow("schema migration complete")
	return nil
}
