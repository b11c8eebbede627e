package usecases

import (
	"context"
	"time"
)

// TransactionManager runs a function inside one database transaction.
// Repositories called with the inner context join that transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers lifecycle and quota emails. Implementations never
// return errors: delivery failures are logged and swallowed so a dead
// SMTP server cannot fail a committed state change.
type Notifier interface {
	SubscriptionConfirmed(ctx context.Context, userID uint, planName string)
	SubscriptionCanceled(ctx context.Context, userID uint)
	PaymentFailed(ctx context.Context, userID uint)
	QuotaThresholdReached(ctx context.Context, userID uint, percent int, used uint64, limit int64)
	TrialEndingSoon(ctx context.Context, userID uint, trialEnd time.Time)
}

// BillingProviderClient is the outbound half of the provider integration.
type BillingProviderClient interface {
	// CancelAtPeriodEnd flags the remote subscription to lapse at the end
	// of the current period instead of renewing.
	CancelAtPeriodEnd(ctx context.Context, providerSubscriptionID string) error
}
