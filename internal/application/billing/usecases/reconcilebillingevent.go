package usecases

import (
	"context"
	"fmt"
	"time"

	"listcraft/internal/domain/billing"
	vo "listcraft/internal/domain/billing/valueobjects"
	"listcraft/internal/shared/logger"
)

// ReconcileBillingEventUseCase applies verified provider events to the
// local subscription state. Handlers are idempotent: providers redeliver
// events, and replays must converge on the same state without sending
// duplicate notifications.
type ReconcileBillingEventUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	usageRepo        billing.UsageRecordRepository
	txManager        TransactionManager
	notifier         Notifier
	logger           logger.Interface
}

func NewReconcileBillingEventUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	usageRepo billing.UsageRecordRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger logger.Interface,
) *ReconcileBillingEventUseCase {
	return &ReconcileBillingEventUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		usageRepo:        usageRepo,
		txManager:        txManager,
		notifier:         notifier,
		logger:           logger,
	}
}

// Execute dispatches one event. A nil return acknowledges the event to the
// provider; errors make the provider retry, so handlers return errors only
// for transient failures, never for events that can never succeed.
func (uc *ReconcileBillingEventUseCase) Execute(ctx context.Context, event BillingEvent) error {
	switch event.Type {
	case EventCheckoutCompleted:
		return uc.handleCheckoutCompleted(ctx, event)
	case EventSubscriptionUpdated:
		return uc.handleSubscriptionUpdated(ctx, event)
	case EventSubscriptionDeleted:
		return uc.handleSubscriptionDeleted(ctx, event)
	case EventPaymentFailed:
		return uc.handlePaymentFailed(ctx, event)
	case EventPaymentSucceeded:
		return uc.handlePaymentSucceeded(ctx, event)
	default:
		uc.logger.Infow("ignoring unhandled billing event type",
			"event_id", event.ID,
			"type", event.Type,
		)
		return nil
	}
}

func (uc *ReconcileBillingEventUseCase) handleCheckoutCompleted(ctx context.Context, event BillingEvent) error {
	if event.UserID == 0 {
		uc.logger.Warnw("checkout event without user reference, dropping",
			"event_id", event.ID,
		)
		return nil
	}

	plan, err := uc.planRepo.GetByProviderPriceID(ctx, event.ProviderPriceID)
	if err != nil {
		return fmt.Errorf("resolve plan for price %s: %w", event.ProviderPriceID, err)
	}
	if plan == nil {
		uc.logger.Warnw("checkout references unknown price, dropping",
			"event_id", event.ID,
			"price_id", event.ProviderPriceID,
		)
		return nil
	}

	status := vo.MapProviderStatus(event.Status)
	notifyConfirmed := false

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		existing, err := uc.subscriptionRepo.GetByUserIDForUpdate(txCtx, event.UserID)
		if err != nil {
			return err
		}

		if existing != nil {
			// Redelivery of the same checkout leaves state untouched.
			if existing.ProviderSubscriptionID() == event.ProviderSubscriptionID {
				return nil
			}
			if err := existing.ReplaceFromCheckout(plan.ID(), event.ProviderCustomerID,
				event.ProviderSubscriptionID, status, event.PeriodStart, event.PeriodEnd, event.TrialEnd); err != nil {
				return err
			}
			if err := uc.subscriptionRepo.Update(txCtx, existing); err != nil {
				return err
			}
		} else {
			sub, err := billing.NewSubscription(event.UserID, plan.ID(),
				event.ProviderCustomerID, event.ProviderSubscriptionID, status)
			if err != nil {
				return err
			}
			if err := sub.ReplaceFromCheckout(plan.ID(), event.ProviderCustomerID,
				event.ProviderSubscriptionID, status, event.PeriodStart, event.PeriodEnd, event.TrialEnd); err != nil {
				return err
			}
			if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
				return err
			}
		}

		if _, err := uc.usageRepo.GetOrCreateCurrent(txCtx, event.UserID); err != nil {
			return err
		}

		notifyConfirmed = true
		return nil
	})
	if err != nil {
		return err
	}

	if notifyConfirmed {
		uc.notifier.SubscriptionConfirmed(ctx, event.UserID, plan.Name())
	}

	uc.logger.Infow("checkout reconciled",
		"event_id", event.ID,
		"user_id", event.UserID,
		"plan", plan.Slug(),
	)
	return nil
}

func (uc *ReconcileBillingEventUseCase) handleSubscriptionUpdated(ctx context.Context, event BillingEvent) error {
	return uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByProviderSubscriptionID(txCtx, event.ProviderSubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			uc.logger.Warnw("update event for unknown subscription, dropping",
				"event_id", event.ID,
				"provider_subscription_id", event.ProviderSubscriptionID,
			)
			return nil
		}

		status := vo.MapProviderStatus(event.Status)
		if err := sub.SyncFromProvider(status, event.PeriodStart, event.PeriodEnd,
			event.CancelAtPeriodEnd, event.CanceledAt); err != nil {
			// A late update for a canceled subscription is expected noise.
			uc.logger.Infow("dropping update for terminal subscription",
				"event_id", event.ID,
				"user_id", sub.UserID(),
				"incoming_status", event.Status,
			)
			return nil
		}

		// Plan switches arrive as updated events carrying the new price.
		if event.ProviderPriceID != "" {
			plan, err := uc.planRepo.GetByProviderPriceID(txCtx, event.ProviderPriceID)
			if err != nil {
				return err
			}
			if plan != nil && plan.ID() != sub.PlanID() {
				if err := sub.ReplaceFromCheckout(plan.ID(), sub.ProviderCustomerID(),
					sub.ProviderSubscriptionID(), status, event.PeriodStart, event.PeriodEnd, event.TrialEnd); err != nil {
					return err
				}
			}
		}

		return uc.subscriptionRepo.Update(txCtx, sub)
	})
}

func (uc *ReconcileBillingEventUseCase) handleSubscriptionDeleted(ctx context.Context, event BillingEvent) error {
	var notifyUserID uint

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByProviderSubscriptionID(txCtx, event.ProviderSubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			uc.logger.Warnw("deletion event for unknown subscription, dropping",
				"event_id", event.ID,
				"provider_subscription_id", event.ProviderSubscriptionID,
			)
			return nil
		}

		wasCanceled := sub.Status() == vo.StatusCanceled

		canceledAt := time.Now()
		if event.CanceledAt != nil {
			canceledAt = *event.CanceledAt
		}
		sub.MarkCanceled(canceledAt)

		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return err
		}

		if !wasCanceled {
			notifyUserID = sub.UserID()
		}
		return nil
	})
	if err != nil {
		return err
	}

	if notifyUserID != 0 {
		uc.notifier.SubscriptionCanceled(ctx, notifyUserID)
	}
	return nil
}

func (uc *ReconcileBillingEventUseCase) handlePaymentFailed(ctx context.Context, event BillingEvent) error {
	// One-off invoices carry no subscription reference and are not ours.
	if event.ProviderSubscriptionID == "" {
		uc.logger.Infow("payment failure without subscription reference, dropping",
			"event_id", event.ID,
		)
		return nil
	}

	var notifyUserID uint

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByProviderSubscriptionID(txCtx, event.ProviderSubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			uc.logger.Warnw("payment failure for unknown subscription, dropping",
				"event_id", event.ID,
				"provider_subscription_id", event.ProviderSubscriptionID,
			)
			return nil
		}

		before := sub.Status()
		sub.MarkPastDue()
		if sub.Status() == before {
			return nil
		}

		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return err
		}
		notifyUserID = sub.UserID()
		return nil
	})
	if err != nil {
		return err
	}

	if notifyUserID != 0 {
		uc.notifier.PaymentFailed(ctx, notifyUserID)
	}
	return nil
}

func (uc *ReconcileBillingEventUseCase) handlePaymentSucceeded(ctx context.Context, event BillingEvent) error {
	if event.ProviderSubscriptionID == "" {
		return nil
	}

	return uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByProviderSubscriptionID(txCtx, event.ProviderSubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			uc.logger.Warnw("payment success for unknown subscription, dropping",
				"event_id", event.ID,
				"provider_subscription_id", event.ProviderSubscriptionID,
			)
			return nil
		}

		if sub.RecoverAfterPayment() {
			if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
				return err
			}
			uc.logger.Infow("subscription recovered after payment",
				"user_id", sub.UserID(),
			)
		}

		// A renewal payment opens a new billing period; make sure the
		// period's usage record exists so the first generation does not race.
		if _, err := uc.usageRepo.GetOrCreateCurrent(txCtx, sub.UserID()); err != nil {
			return err
		}
		return nil
	})
}
