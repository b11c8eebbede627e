package valueobjects

type SubscriptionStatus string

const (
	StatusTrialing SubscriptionStatus = "trialing"
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusUnpaid   SubscriptionStatus = "unpaid"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanUseService reports whether the subscription grants access to
// quota-gated features.
func (s SubscriptionStatus) CanUseService() bool {
	return s == StatusActive || s == StatusTrialing
}

// IsTerminal reports whether no further provider event may move the
// subscription out of this status. Canceled subscriptions stay canceled;
// a new checkout creates a fresh binding instead.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCanceled
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusTrialing: true,
	StatusActive:   true,
	StatusPastDue:  true,
	StatusCanceled: true,
	StatusUnpaid:   true,
}

var providerStatusMap = map[string]SubscriptionStatus{
	"active":   StatusActive,
	"trialing": StatusTrialing,
	"past_due": StatusPastDue,
	"canceled": StatusCanceled,
	"unpaid":   StatusUnpaid,
}

// MapProviderStatus translates a billing provider status string into the
// internal status. Unrecognized values map to canceled: access fails closed
// rather than granting service on a status we do not understand.
func MapProviderStatus(providerStatus string) SubscriptionStatus {
	if status, ok := providerStatusMap[providerStatus]; ok {
		return status
	}
	return StatusCanceled
}
