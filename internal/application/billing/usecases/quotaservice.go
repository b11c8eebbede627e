package usecases

import (
	"context"
	"time"

	"listcraft/internal/domain/billing"
	"listcraft/internal/shared/logger"
)

// QuotaStatus is a point-in-time snapshot of a user's generation allowance
// within the current billing period.
type QuotaStatus struct {
	Allowed     bool      `json:"allowed"`
	Unlimited   bool      `json:"unlimited"`
	Limit       int64     `json:"limit"`
	Used        uint64    `json:"used"`
	Remaining   int64     `json:"remaining"`
	PercentUsed int       `json:"percent_used"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	PlanName    string    `json:"plan_name"`
	PlanSlug    string    `json:"plan_slug"`
}

// SubscriptionDetails is the read model returned to the account API.
type SubscriptionDetails struct {
	Status            string     `json:"status"`
	PlanName          string     `json:"plan_name"`
	PlanSlug          string     `json:"plan_slug"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	TrialEnd          *time.Time `json:"trial_end,omitempty"`
}

// QuotaService gates description generation on the user's plan quota and
// owns the atomic consume path.
type QuotaService struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	usageRepo        billing.UsageRecordRepository
	txManager        TransactionManager
	logger           logger.Interface
}

func NewQuotaService(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	usageRepo billing.UsageRecordRepository,
	txManager TransactionManager,
	logger logger.Interface,
) *QuotaService {
	return &QuotaService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		usageRepo:        usageRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// CheckQuota reports the user's current allowance without consuming any of
// it. The result is advisory: Consume re-checks under a row lock.
func (s *QuotaService) CheckQuota(ctx context.Context, userID uint) (*QuotaStatus, error) {
	_, plan, err := s.usableSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := s.usageRepo.GetOrCreateCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildQuotaStatus(plan, record.DescriptionsGenerated(), record.PeriodStart(), record.PeriodEnd()), nil
}

// Consume atomically charges delta generations against the current period.
// The usage row is locked for the duration of the check, so two concurrent
// calls for the same user serialize and the quota can never be oversold.
// Returns billing.ErrQuotaExceeded without consuming when the charge would
// cross the limit.
func (s *QuotaService) Consume(ctx context.Context, userID uint, delta uint64) (*QuotaStatus, error) {
	var result *QuotaStatus

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := s.subscriptionRepo.GetByUserIDForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if sub == nil {
			return billing.ErrSubscriptionNotFound
		}
		if !sub.IsUsable() {
			return billing.ErrSubscriptionInactive
		}

		plan, err := s.planRepo.GetByID(txCtx, sub.PlanID())
		if err != nil {
			return err
		}
		if plan == nil {
			return billing.ErrPlanNotFound
		}

		record, err := s.usageRepo.GetCurrentForUpdate(txCtx, userID)
		if err != nil {
			return err
		}

		if !plan.IsUnlimited() {
			if record.DescriptionsGenerated()+delta > uint64(plan.DescriptionQuota()) {
				return billing.ErrQuotaExceeded
			}
		}

		newCount, err := s.usageRepo.IncrementUsage(txCtx, record.ID(), delta)
		if err != nil {
			return err
		}

		result = buildQuotaStatus(plan, newCount, record.PeriodStart(), record.PeriodEnd())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CurrentSubscription returns the user's subscription joined with its plan.
func (s *QuotaService) CurrentSubscription(ctx context.Context, userID uint) (*SubscriptionDetails, error) {
	sub, err := s.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, billing.ErrSubscriptionNotFound
	}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, billing.ErrPlanNotFound
	}

	return &SubscriptionDetails{
		Status:            sub.Status().String(),
		PlanName:          plan.Name(),
		PlanSlug:          plan.Slug(),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd(),
		CurrentPeriodEnd:  sub.CurrentPeriodEnd(),
		TrialEnd:          sub.TrialEnd(),
	}, nil
}

// UsageHistory returns the user's usage records overlapping [from, to).
func (s *QuotaService) UsageHistory(ctx context.Context, userID uint, from, to time.Time) ([]*billing.UsageRecord, error) {
	return s.usageRepo.GetHistory(ctx, userID, from, to)
}

func (s *QuotaService) usableSubscription(ctx context.Context, userID uint) (*billing.Subscription, *billing.Plan, error) {
	sub, err := s.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, billing.ErrSubscriptionNotFound
	}
	if !sub.IsUsable() {
		return nil, nil, billing.ErrSubscriptionInactive
	}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, billing.ErrPlanNotFound
	}

	return sub, plan, nil
}

func buildQuotaStatus(plan *billing.Plan, used uint64, periodStart, periodEnd time.Time) *QuotaStatus {
	remaining, unlimited := plan.RemainingQuota(used)

	status := &QuotaStatus{
		Unlimited:   unlimited,
		Limit:       plan.DescriptionQuota(),
		Used:        used,
		Remaining:   remaining,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PlanName:    plan.Name(),
		PlanSlug:    plan.Slug(),
	}

	if unlimited {
		status.Allowed = true
		return status
	}

	status.Allowed = remaining > 0
	if plan.DescriptionQuota() > 0 {
		status.PercentUsed = int(used * 100 / uint64(plan.DescriptionQuota()))
	} else {
		status.PercentUsed = 100
	}
	return status
}
