package billing

import (
	"context"
	"time"
)

// SubscriptionRepository persists the one-per-user subscription binding.
// Lookups return nil (not an error) when no row exists.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByUserID(ctx context.Context, userID uint) (*Subscription, error)
	GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*Subscription, error)
	// GetByUserIDForUpdate locks the user's subscription row for the
	// duration of the surrounding transaction.
	GetByUserIDForUpdate(ctx context.Context, userID uint) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
	// FindTrialsEndingBefore returns trialing subscriptions whose trial
	// ends before the deadline and that have no trial notice stamp yet.
	FindTrialsEndingBefore(ctx context.Context, deadline time.Time) ([]*Subscription, error)
}

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	// GetByProviderPriceID resolves the plan a provider checkout or
	// subscription refers to. Returns nil when no plan carries the price.
	GetByProviderPriceID(ctx context.Context, priceID string) (*Plan, error)
	GetActivePlans(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// UsageRecordRepository persists per-period usage counters.
type UsageRecordRepository interface {
	// GetOrCreateCurrent returns the record covering now, creating a
	// zero-count record when none exists. Safe under concurrent calls for
	// the same user: all callers converge on a single record.
	GetOrCreateCurrent(ctx context.Context, userID uint) (*UsageRecord, error)
	// GetCurrent returns the record covering now, or nil.
	GetCurrent(ctx context.Context, userID uint) (*UsageRecord, error)
	// GetCurrentForUpdate is GetOrCreateCurrent plus a row lock held for
	// the duration of the surrounding transaction.
	GetCurrentForUpdate(ctx context.Context, userID uint) (*UsageRecord, error)
	// IncrementUsage adds delta atomically in the database and returns
	// the new count. Concurrent increments never lose updates.
	IncrementUsage(ctx context.Context, recordID uint, delta uint64) (uint64, error)
	GetHistory(ctx context.Context, userID uint, from, to time.Time) ([]*UsageRecord, error)
}
