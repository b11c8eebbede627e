package billing

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("period bounds cannot be zero")

// UsageRecord counts description generations for one user inside one
// half-open billing window [periodStart, periodEnd). Records for closed
// periods are history and are never mutated again.
type UsageRecord struct {
	id                    uint
	userID                uint
	periodStart           time.Time
	periodEnd             time.Time
	descriptionsGenerated uint64
	createdAt             time.Time
	updatedAt             time.Time
}

func NewUsageRecord(userID uint, periodStart, periodEnd time.Time) (*UsageRecord, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if periodStart.IsZero() || periodEnd.IsZero() {
		return nil, ErrInvalidPeriod
	}
	if !periodEnd.After(periodStart) {
		return nil, errors.New("period end must be after period start")
	}

	now := time.Now()
	return &UsageRecord{
		userID:                userID,
		periodStart:           periodStart,
		periodEnd:             periodEnd,
		descriptionsGenerated: 0,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

func ReconstructUsageRecord(id, userID uint, periodStart, periodEnd time.Time,
	descriptionsGenerated uint64, createdAt, updatedAt time.Time) (*UsageRecord, error) {

	if id == 0 {
		return nil, errors.New("usage record ID cannot be zero")
	}
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if periodStart.IsZero() || periodEnd.IsZero() {
		return nil, ErrInvalidPeriod
	}

	return &UsageRecord{
		id:                    id,
		userID:                userID,
		periodStart:           periodStart,
		periodEnd:             periodEnd,
		descriptionsGenerated: descriptionsGenerated,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}, nil
}

func (u *UsageRecord) ID() uint {
	return u.id
}

func (u *UsageRecord) UserID() uint {
	return u.userID
}

func (u *UsageRecord) PeriodStart() time.Time {
	return u.periodStart
}

func (u *UsageRecord) PeriodEnd() time.Time {
	return u.periodEnd
}

func (u *UsageRecord) DescriptionsGenerated() uint64 {
	return u.descriptionsGenerated
}

func (u *UsageRecord) CreatedAt() time.Time {
	return u.createdAt
}

func (u *UsageRecord) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *UsageRecord) SetID(id uint) error {
	if id == 0 {
		return errors.New("usage record ID cannot be zero")
	}
	u.id = id
	return nil
}

// Contains reports whether t falls inside the record's half-open window.
func (u *UsageRecord) Contains(t time.Time) bool {
	utc := t.UTC()
	return !utc.Before(u.periodStart) && utc.Before(u.periodEnd)
}

// IsCurrent reports whether the record covers the present instant.
func (u *UsageRecord) IsCurrent() bool {
	return u.Contains(time.Now())
}

func (u *UsageRecord) Increment(delta uint64) {
	u.descriptionsGenerated += delta
	u.updatedAt = time.Now()
}
