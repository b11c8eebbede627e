package models

import (
	"time"

	"gorm.io/datatypes"
)

// ListingModel represents the database persistence model for property listings
type ListingModel struct {
	ID                   uint   `gorm:"primarykey"`
	UserID               uint   `gorm:"not null;index"`
	Title                string `gorm:"not null;size:200"`
	PropertyType         string `gorm:"not null;size:50"`
	Bedrooms             uint   `gorm:"not null;default:0"`
	Bathrooms            uint   `gorm:"not null;default:0"`
	SquareFeet           uint   `gorm:"not null;default:0"`
	Location             string `gorm:"size:200"`
	Features             datatypes.JSON
	Tone                 string `gorm:"size:20"`
	GeneratedDescription string `gorm:"type:text"`
	Status               string `gorm:"not null;size:20;index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}
