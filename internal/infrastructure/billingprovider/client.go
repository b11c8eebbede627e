package billingprovider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"listcraft/internal/shared/logger"
)

// Client issues outbound REST calls to the billing provider.
type Client struct {
	apiBase    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(apiBase, apiKey string, logger logger.Interface) *Client {
	return &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// CancelAtPeriodEnd flags the remote subscription to lapse instead of
// renewing. The provider confirms with a subscription.updated event.
func (c *Client) CancelAtPeriodEnd(ctx context.Context, providerSubscriptionID string) error {
	if providerSubscriptionID == "" {
		return fmt.Errorf("provider subscription ID is required")
	}

	form := url.Values{}
	form.Set("cancel_at_period_end", "true")

	endpoint := fmt.Sprintf("%s/subscriptions/%s", c.apiBase, providerSubscriptionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call billing provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Errorw("billing provider rejected cancellation",
			"status", resp.StatusCode,
			"provider_subscription_id", providerSubscriptionID,
			"body", string(body),
		)
		return fmt.Errorf("billing provider returned status %d", resp.StatusCode)
	}

	return nil
}
