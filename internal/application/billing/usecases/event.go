package usecases

import "time"

// Provider event types the reconciler understands. Names follow the
// billing provider's wire format; anything else is acknowledged and logged.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventPaymentFailed       = "invoice.payment_failed"
	EventPaymentSucceeded    = "invoice.payment_succeeded"
)

// BillingEvent is the normalized form of a verified provider webhook
// payload. The transport layer verifies the signature and extracts these
// fields; the reconciler never sees raw provider JSON.
type BillingEvent struct {
	ID                     string
	Type                   string
	UserID                 uint
	ProviderCustomerID     string
	ProviderSubscriptionID string
	ProviderPriceID        string
	Status                 string
	PeriodStart            *time.Time
	PeriodEnd              *time.Time
	TrialEnd               *time.Time
	CancelAtPeriodEnd      bool
	CanceledAt             *time.Time
	OccurredAt             time.Time
}
