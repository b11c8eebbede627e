package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionModel represents the database persistence model for
// subscriptions. One row per user, enforced by the unique index.
type SubscriptionModel struct {
	ID                     uint   `gorm:"primarykey"`
	UserID                 uint   `gorm:"uniqueIndex;not null"`
	PlanID                 uint   `gorm:"not null;index"`
	ProviderCustomerID     string `gorm:"size:100;index"`
	ProviderSubscriptionID string `gorm:"size:100;index"`
	Status                 string `gorm:"not null;size:20;index"`
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	TrialEnd               *time.Time `gorm:"index"`
	CancelAtPeriodEnd      bool       `gorm:"not null;default:false"`
	CanceledAt             *time.Time
	TrialNoticeSentAt      *time.Time
	Version                int `gorm:"not null;default:1"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
