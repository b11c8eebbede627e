package models

import "time"

// UsageRecordModel represents the database persistence model for per-period
// usage counters. The unique (user, period start) index makes concurrent
// lazy creation converge on one row.
type UsageRecordModel struct {
	ID                    uint      `gorm:"primarykey"`
	UserID                uint      `gorm:"not null;uniqueIndex:idx_user_period,priority:1"`
	PeriodStart           time.Time `gorm:"not null;uniqueIndex:idx_user_period,priority:2"`
	PeriodEnd             time.Time `gorm:"not null"`
	DescriptionsGenerated uint64    `gorm:"not null;default:0"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (UsageRecordModel) TableName() string {
	return "usage_records"
}
