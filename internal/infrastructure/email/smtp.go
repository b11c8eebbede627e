package email

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "https://app.listcraft.io")
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendWelcomeEmail(to, name string) error {
	subject := "Welcome to ListingCraft"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome, %s!</h2>
			<p>Your account is ready. Add your first property and generate a
			description in seconds:</p>
			<p><a href="%s/listings/new">Create your first listing</a></p>
		</body>
		</html>
	`, name, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
Welcome, %s!

Your account is ready. Add your first property and generate a description
in seconds:
%s/listings/new
	`, name, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendSubscriptionConfirmedEmail(to, name, planName string) error {
	subject := "Your Subscription Is Active"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome aboard, %s!</h2>
			<p>Your <strong>%s</strong> subscription is now active.</p>
			<p>You can start generating listing descriptions right away:</p>
			<p><a href="%s/listings">Go to your listings</a></p>
		</body>
		</html>
	`, name, planName, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
Welcome aboard, %s!

Your %s subscription is now active.

Start generating listing descriptions at:
%s/listings
	`, name, planName, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendSubscriptionCanceledEmail(to, name string) error {
	subject := "Your Subscription Has Ended"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Sorry to see you go, %s</h2>
			<p>Your subscription has ended and description generation is now paused.</p>
			<p>You can re-subscribe at any time to pick up where you left off:</p>
			<p><a href="%s/plans">View plans</a></p>
		</body>
		</html>
	`, name, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
Sorry to see you go, %s

Your subscription has ended and description generation is now paused.

You can re-subscribe at any time:
%s/plans
	`, name, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendPaymentFailedEmail(to, name string) error {
	subject := "Payment Failed - Action Required"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment Problem</h2>
			<p>Hi %s, we couldn't process your latest subscription payment.</p>
			<p>Please update your payment method to keep generating descriptions:</p>
			<p><a href="%s/account/billing">Update payment method</a></p>
			<p>We'll retry the charge automatically over the next few days.</p>
		</body>
		</html>
	`, name, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
Payment Problem

Hi %s, we couldn't process your latest subscription payment.

Please update your payment method at:
%s/account/billing

We'll retry the charge automatically over the next few days.
	`, name, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendQuotaWarningEmail(to, name string, percent int, used uint64, limit int64) error {
	subject := fmt.Sprintf("You've Used %d%% of Your Monthly Descriptions", percent)
	if percent >= 100 {
		subject = "You've Reached Your Monthly Description Limit"
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Quota Update</h2>
			<p>Hi %s, you've generated %d of your %d descriptions this month (%d%%).</p>
			<p>Your quota resets at the start of next month. Need more now?</p>
			<p><a href="%s/plans">Upgrade your plan</a></p>
		</body>
		</html>
	`, name, used, limit, percent, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
Quota Update

Hi %s, you've generated %d of your %d descriptions this month (%d%%).

Your quota resets at the start of next month. Need more now?
%s/plans
	`, name, used, limit, percent, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendTrialEndingEmail(to, name string, trialEnd time.Time) error {
	endDate := trialEnd.Format("January 2, 2006")

	subject := "Your Trial Ends Soon"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Trial Ending</h2>
			<p>Hi %s, your free trial ends on %s.</p>
			<p>Your card will be charged when the trial ends. To keep your access
			without interruption, no action is needed.</p>
			<p><a href="%s/account/billing">Manage subscription</a></p>
		</body>
		</html>
	`, name, endDate, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
Trial Ending

Hi %s, your free trial ends on %s.

Your card will be charged when the trial ends. To keep your access
without interruption, no action is needed.

Manage your subscription at:
%s/account/billing
	`, name, endDate, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.formatFrom())
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *SMTPEmailService) formatFrom() string {
	if strings.TrimSpace(s.config.FromName) == "" {
		return s.config.FromAddress
	}
	return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
}
