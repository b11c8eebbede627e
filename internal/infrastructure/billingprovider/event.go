package billingprovider

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"listcraft/internal/application/billing/usecases"
)

// wire envelope shared by every provider event.
type eventEnvelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID                 string            `json:"id"`
	ClientReferenceID  string            `json:"client_reference_id"`
	Customer           string            `json:"customer"`
	Subscription       string            `json:"subscription"`
	Status             string            `json:"status"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	TrialEnd           int64             `json:"trial_end"`
	Metadata           map[string]string `json:"metadata"`
}

type subscriptionObject struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	TrialEnd           int64  `json:"trial_end"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CanceledAt         int64  `json:"canceled_at"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type invoiceObject struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
	PeriodStart  int64  `json:"period_start"`
	PeriodEnd    int64  `json:"period_end"`
}

// ParseEvent normalizes a verified webhook payload into a BillingEvent.
// Unknown event types still parse: the reconciler logs and acknowledges
// them, so a provider rollout of new types never breaks the endpoint.
func ParseEvent(payload []byte) (usecases.BillingEvent, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return usecases.BillingEvent{}, fmt.Errorf("decode event envelope: %w", err)
	}
	if envelope.ID == "" || envelope.Type == "" {
		return usecases.BillingEvent{}, fmt.Errorf("event envelope missing id or type")
	}

	event := usecases.BillingEvent{
		ID:         envelope.ID,
		Type:       envelope.Type,
		OccurredAt: time.Unix(envelope.Created, 0).UTC(),
	}

	switch envelope.Type {
	case usecases.EventCheckoutCompleted:
		var session checkoutSessionObject
		if err := json.Unmarshal(envelope.Data.Object, &session); err != nil {
			return usecases.BillingEvent{}, fmt.Errorf("decode checkout session: %w", err)
		}
		event.UserID = parseUserReference(session.ClientReferenceID)
		event.ProviderCustomerID = session.Customer
		event.ProviderSubscriptionID = session.Subscription
		event.ProviderPriceID = session.Metadata["price_id"]
		event.Status = session.Status
		event.PeriodStart = unixTime(session.CurrentPeriodStart)
		event.PeriodEnd = unixTime(session.CurrentPeriodEnd)
		event.TrialEnd = unixTime(session.TrialEnd)
		// Older checkout payloads omit the subscription state; payment is
		// confirmed at this point, so active is the safe default.
		if event.Status == "" {
			event.Status = "active"
		}

	case usecases.EventSubscriptionUpdated, usecases.EventSubscriptionDeleted:
		var sub subscriptionObject
		if err := json.Unmarshal(envelope.Data.Object, &sub); err != nil {
			return usecases.BillingEvent{}, fmt.Errorf("decode subscription: %w", err)
		}
		event.ProviderCustomerID = sub.Customer
		event.ProviderSubscriptionID = sub.ID
		event.Status = sub.Status
		event.PeriodStart = unixTime(sub.CurrentPeriodStart)
		event.PeriodEnd = unixTime(sub.CurrentPeriodEnd)
		event.TrialEnd = unixTime(sub.TrialEnd)
		event.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		event.CanceledAt = unixTime(sub.CanceledAt)
		if len(sub.Items.Data) > 0 {
			event.ProviderPriceID = sub.Items.Data[0].Price.ID
		}

	case usecases.EventPaymentFailed, usecases.EventPaymentSucceeded:
		var invoice invoiceObject
		if err := json.Unmarshal(envelope.Data.Object, &invoice); err != nil {
			return usecases.BillingEvent{}, fmt.Errorf("decode invoice: %w", err)
		}
		event.ProviderCustomerID = invoice.Customer
		event.ProviderSubscriptionID = invoice.Subscription
		event.PeriodStart = unixTime(invoice.PeriodStart)
		event.PeriodEnd = unixTime(invoice.PeriodEnd)
	}

	return event, nil
}

func parseUserReference(ref string) uint {
	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
