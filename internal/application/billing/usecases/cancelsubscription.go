package usecases

import (
	"context"
	"fmt"

	"listcraft/internal/domain/billing"
	"listcraft/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	UserID uint
}

// CancelSubscriptionUseCase records the user's intent to cancel and flags
// the remote subscription to lapse at period end. The local status stays
// usable until the provider's deletion event arrives.
type CancelSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	providerClient   BillingProviderClient
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	providerClient BillingProviderClient,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		providerClient:   providerClient,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) error {
	sub, err := uc.subscriptionRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil {
		return billing.ErrSubscriptionNotFound
	}

	if sub.CancelAtPeriodEnd() {
		return nil
	}

	if err := sub.RequestCancellation(); err != nil {
		return err
	}

	// Tell the provider first. If this fails we retry on the next request
	// instead of holding a local flag the provider never learned about.
	if err := uc.providerClient.CancelAtPeriodEnd(ctx, sub.ProviderSubscriptionID()); err != nil {
		return fmt.Errorf("cancel at provider: %w", err)
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	uc.logger.Infow("cancellation requested",
		"user_id", cmd.UserID,
		"provider_subscription_id", sub.ProviderSubscriptionID(),
	)
	return nil
}
