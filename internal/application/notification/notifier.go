// Package notification turns billing lifecycle transitions into emails.
// Every send is best-effort: the state change that triggered it has
// already committed, so failures are logged and never propagated.
package notification

import (
	"context"
	"time"

	"listcraft/internal/shared/logger"
)

// UserContact is the minimal addressing info the notifier needs.
type UserContact struct {
	Email string
	Name  string
}

// UserDirectory resolves a user ID to contact details.
type UserDirectory interface {
	GetContact(ctx context.Context, userID uint) (*UserContact, error)
}

// EmailService is the delivery backend, implemented over SMTP.
type EmailService interface {
	SendWelcomeEmail(to, name string) error
	SendSubscriptionConfirmedEmail(to, name, planName string) error
	SendSubscriptionCanceledEmail(to, name string) error
	SendPaymentFailedEmail(to, name string) error
	SendQuotaWarningEmail(to, name string, percent int, used uint64, limit int64) error
	SendTrialEndingEmail(to, name string, trialEnd time.Time) error
}

type Notifier struct {
	enabled bool
	emails  EmailService
	users   UserDirectory
	logger  logger.Interface
}

func NewNotifier(enabled bool, emails EmailService, users UserDirectory, logger logger.Interface) *Notifier {
	return &Notifier{
		enabled: enabled,
		emails:  emails,
		users:   users,
		logger:  logger,
	}
}

// Welcome is called by the registration workflow after the account is
// committed.
func (n *Notifier) Welcome(ctx context.Context, userID uint) {
	n.send(ctx, userID, "welcome", func(c *UserContact) error {
		return n.emails.SendWelcomeEmail(c.Email, c.Name)
	})
}

func (n *Notifier) SubscriptionConfirmed(ctx context.Context, userID uint, planName string) {
	n.send(ctx, userID, "subscription_confirmed", func(c *UserContact) error {
		return n.emails.SendSubscriptionConfirmedEmail(c.Email, c.Name, planName)
	})
}

func (n *Notifier) SubscriptionCanceled(ctx context.Context, userID uint) {
	n.send(ctx, userID, "subscription_canceled", func(c *UserContact) error {
		return n.emails.SendSubscriptionCanceledEmail(c.Email, c.Name)
	})
}

func (n *Notifier) PaymentFailed(ctx context.Context, userID uint) {
	n.send(ctx, userID, "payment_failed", func(c *UserContact) error {
		return n.emails.SendPaymentFailedEmail(c.Email, c.Name)
	})
}

func (n *Notifier) QuotaThresholdReached(ctx context.Context, userID uint, percent int, used uint64, limit int64) {
	n.send(ctx, userID, "quota_warning", func(c *UserContact) error {
		return n.emails.SendQuotaWarningEmail(c.Email, c.Name, percent, used, limit)
	})
}

func (n *Notifier) TrialEndingSoon(ctx context.Context, userID uint, trialEnd time.Time) {
	n.send(ctx, userID, "trial_ending", func(c *UserContact) error {
		return n.emails.SendTrialEndingEmail(c.Email, c.Name, trialEnd)
	})
}

func (n *Notifier) send(ctx context.Context, userID uint, kind string, deliver func(*UserContact) error) {
	if !n.enabled {
		n.logger.Debugw("email notifications disabled, skipping",
			"kind", kind,
			"user_id", userID,
		)
		return
	}

	contact, err := n.users.GetContact(ctx, userID)
	if err != nil {
		n.logger.Errorw("failed to resolve user contact for notification",
			"kind", kind,
			"user_id", userID,
			"error", err,
		)
		return
	}
	if contact == nil {
		n.logger.Warnw("no contact for user, dropping notification",
			"kind", kind,
			"user_id", userID,
		)
		return
	}

	if err := deliver(contact); err != nil {
		n.logger.Errorw("failed to send notification email",
			"kind", kind,
			"user_id", userID,
			"error", err,
		)
		return
	}

	n.logger.Infow("notification email sent",
		"kind", kind,
		"user_id", userID,
	)
}
