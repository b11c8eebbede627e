package usecases

import (
	"context"
	"fmt"
	"time"

	"listcraft/internal/domain/billing"
	"listcraft/internal/shared/logger"
)

// SendTrialNoticesUseCase emails users whose trial ends within the notice
// window. Each subscription is stamped after the email is handed off so a
// later sweep never mails the same trial twice.
type SendTrialNoticesUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	notifier         Notifier
	noticeDays       int
	logger           logger.Interface
}

func NewSendTrialNoticesUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	notifier Notifier,
	noticeDays int,
	logger logger.Interface,
) *SendTrialNoticesUseCase {
	if noticeDays <= 0 {
		noticeDays = 3
	}
	return &SendTrialNoticesUseCase{
		subscriptionRepo: subscriptionRepo,
		notifier:         notifier,
		noticeDays:       noticeDays,
		logger:           logger,
	}
}

func (uc *SendTrialNoticesUseCase) Execute(ctx context.Context) error {
	deadline := time.Now().UTC().Add(time.Duration(uc.noticeDays) * 24 * time.Hour)

	subs, err := uc.subscriptionRepo.FindTrialsEndingBefore(ctx, deadline)
	if err != nil {
		return fmt.Errorf("find ending trials: %w", err)
	}

	for _, sub := range subs {
		trialEnd := sub.TrialEnd()
		if trialEnd == nil {
			continue
		}

		uc.notifier.TrialEndingSoon(ctx, sub.UserID(), *trialEnd)

		sub.MarkTrialNoticeSent(time.Now().UTC())
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			// The notice may repeat on the next sweep; better than
			// silently never stamping.
			uc.logger.Errorw("failed to stamp trial notice",
				"user_id", sub.UserID(),
				"error", err,
			)
			continue
		}

		uc.logger.Infow("trial ending notice sent",
			"user_id", sub.UserID(),
			"trial_end", trialEnd,
		)
	}

	return nil
}
