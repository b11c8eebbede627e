package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlanModel represents the database persistence model for plans
// This is the anti-corruption layer between domain and database
type PlanModel struct {
	ID                uint   `gorm:"primarykey"`
	Name              string `gorm:"not null;size:100"`
	Slug              string `gorm:"uniqueIndex;not null;size:100"`
	Description       string `gorm:"size:500"`
	Price             uint64 `gorm:"not null;comment:monthly price in minor units"`
	Currency          string `gorm:"not null;size:3"`
	DescriptionQuota  int64  `gorm:"not null;comment:-1 means unlimited"`
	Features          datatypes.JSON
	ProviderPriceID   string `gorm:"size:100;index"`
	ProviderProductID string `gorm:"size:100"`
	Status            string `gorm:"not null;size:20;index"`
	SortOrder         int    `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}
