package billing

import (
	"fmt"
	"time"

	vo "listcraft/internal/domain/billing/valueobjects"
)

// Subscription binds one user to one plan and mirrors the subscription's
// lifecycle at the billing provider. Status and period fields are written
// only by the billing event reconciler; the user-facing cancel action
// records an intent flag and waits for the provider's deletion event.
type Subscription struct {
	id                     uint
	userID                 uint
	planID                 uint
	providerCustomerID     string
	providerSubscriptionID string
	status                 vo.SubscriptionStatus
	currentPeriodStart     *time.Time
	currentPeriodEnd       *time.Time
	trialEnd               *time.Time
	cancelAtPeriodEnd      bool
	canceledAt             *time.Time
	trialNoticeSentAt      *time.Time
	version                int
	createdAt              time.Time
	updatedAt              time.Time
}

func NewSubscription(userID, planID uint, providerCustomerID, providerSubscriptionID string,
	status vo.SubscriptionStatus) (*Subscription, error) {

	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	now := time.Now()
	return &Subscription{
		userID:                 userID,
		planID:                 planID,
		providerCustomerID:     providerCustomerID,
		providerSubscriptionID: providerSubscriptionID,
		status:                 status,
		version:                1,
		createdAt:              now,
		updatedAt:              now,
	}, nil
}

func ReconstructSubscription(
	id, userID, planID uint,
	providerCustomerID, providerSubscriptionID string,
	status vo.SubscriptionStatus,
	currentPeriodStart, currentPeriodEnd, trialEnd *time.Time,
	cancelAtPeriodEnd bool,
	canceledAt, trialNoticeSentAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:                     id,
		userID:                 userID,
		planID:                 planID,
		providerCustomerID:     providerCustomerID,
		providerSubscriptionID: providerSubscriptionID,
		status:                 status,
		currentPeriodStart:     currentPeriodStart,
		currentPeriodEnd:       currentPeriodEnd,
		trialEnd:               trialEnd,
		cancelAtPeriodEnd:      cancelAtPeriodEnd,
		canceledAt:             canceledAt,
		trialNoticeSentAt:      trialNoticeSentAt,
		version:                version,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) ProviderCustomerID() string {
	return s.providerCustomerID
}

func (s *Subscription) ProviderSubscriptionID() string {
	return s.providerSubscriptionID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) CurrentPeriodStart() *time.Time {
	return s.currentPeriodStart
}

func (s *Subscription) CurrentPeriodEnd() *time.Time {
	return s.currentPeriodEnd
}

func (s *Subscription) TrialEnd() *time.Time {
	return s.trialEnd
}

func (s *Subscription) CancelAtPeriodEnd() bool {
	return s.cancelAtPeriodEnd
}

func (s *Subscription) CanceledAt() *time.Time {
	return s.canceledAt
}

func (s *Subscription) TrialNoticeSentAt() *time.Time {
	return s.trialNoticeSentAt
}

func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsUsable reports whether the subscription currently grants access.
func (s *Subscription) IsUsable() bool {
	return s.status.CanUseService()
}

// SyncFromProvider overwrites the provider-owned fields with the state
// carried by a subscription.updated event. A canceled subscription is
// terminal: late or replayed updates for it are ignored so an out-of-order
// event can never resurrect access.
func (s *Subscription) SyncFromProvider(status vo.SubscriptionStatus,
	periodStart, periodEnd *time.Time, cancelAtPeriodEnd bool, canceledAt *time.Time) error {

	if !vo.ValidStatuses[status] {
		return fmt.Errorf("invalid subscription status: %s", status)
	}
	if s.status.IsTerminal() && status != vo.StatusCanceled {
		return fmt.Errorf("%w: canceled subscription cannot move to %s", ErrSubscriptionInactive, status)
	}

	s.status = status
	s.currentPeriodStart = periodStart
	s.currentPeriodEnd = periodEnd
	s.cancelAtPeriodEnd = cancelAtPeriodEnd
	if canceledAt != nil {
		s.canceledAt = canceledAt
	}
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// ReplaceFromCheckout rebinds the subscription after a completed checkout:
// new plan, fresh provider identifiers, cancellation fields cleared.
func (s *Subscription) ReplaceFromCheckout(planID uint, providerCustomerID, providerSubscriptionID string,
	status vo.SubscriptionStatus, periodStart, periodEnd, trialEnd *time.Time) error {

	if planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return fmt.Errorf("invalid subscription status: %s", status)
	}

	s.planID = planID
	s.providerCustomerID = providerCustomerID
	s.providerSubscriptionID = providerSubscriptionID
	s.status = status
	s.currentPeriodStart = periodStart
	s.currentPeriodEnd = periodEnd
	s.trialEnd = trialEnd
	s.cancelAtPeriodEnd = false
	s.canceledAt = nil
	s.trialNoticeSentAt = nil
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// MarkCanceled forces the terminal canceled status. canceledAt is stamped
// once; replaying the deletion event leaves it untouched.
func (s *Subscription) MarkCanceled(at time.Time) {
	if s.status == vo.StatusCanceled && s.canceledAt != nil {
		return
	}
	s.status = vo.StatusCanceled
	if s.canceledAt == nil {
		s.canceledAt = &at
	}
	s.updatedAt = time.Now()
	s.version++
}

// MarkPastDue records a failed payment. Canceled subscriptions are left alone.
func (s *Subscription) MarkPastDue() {
	if s.status.IsTerminal() || s.status == vo.StatusPastDue {
		return
	}
	s.status = vo.StatusPastDue
	s.updatedAt = time.Now()
	s.version++
}

// RecoverAfterPayment moves a past-due or unpaid subscription back to
// active. Any other status, canceled included, is unchanged.
func (s *Subscription) RecoverAfterPayment() bool {
	if s.status != vo.StatusPastDue && s.status != vo.StatusUnpaid {
		return false
	}
	s.status = vo.StatusActive
	s.updatedAt = time.Now()
	s.version++
	return true
}

// RequestCancellation records the user's intent to cancel at period end.
// The authoritative status change arrives later via the provider's
// deletion event.
func (s *Subscription) RequestCancellation() error {
	if s.status.IsTerminal() {
		return ErrSubscriptionInactive
	}
	if s.cancelAtPeriodEnd {
		return nil
	}
	s.cancelAtPeriodEnd = true
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// MarkTrialNoticeSent stamps the trial-ending-soon dedup marker.
func (s *Subscription) MarkTrialNoticeSent(at time.Time) {
	s.trialNoticeSentAt = &at
	s.updatedAt = time.Now()
	s.version++
}
