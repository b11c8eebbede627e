// Package billingprovider speaks the billing provider's wire formats:
// inbound webhook verification and parsing, and the outbound REST calls
// the cancellation flow needs.
package billingprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSignatureHeader = errors.New("malformed webhook signature header")
	ErrSignatureMismatch      = errors.New("webhook signature mismatch")
	ErrTimestampTooOld        = errors.New("webhook timestamp outside tolerance")
)

// WebhookVerifier checks the provider's signature header, of the form
// "t=<unix>,v1=<hex hmac>". The signed message is "<unix>.<payload>" keyed
// with the endpoint secret.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
}

func NewWebhookVerifier(secret string, toleranceSecs int) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: time.Duration(toleranceSecs) * time.Second,
	}
}

// Verify validates the signature header against the raw payload. A zero
// tolerance disables the timestamp freshness check.
func (v *WebhookVerifier) Verify(payload []byte, header string, now time.Time) error {
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	if v.tolerance > 0 {
		age := now.Sub(time.Unix(timestamp, 0))
		if age < 0 {
			age = -age
		}
		if age > v.tolerance {
			return ErrTimestampTooOld
		}
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}

	return ErrSignatureMismatch
}

// Sign produces a signature header for the payload. Used by tests and the
// local webhook replay tool.
func (v *WebhookVerifier) Sign(payload []byte, at time.Time) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if strings.TrimSpace(header) == "" {
		return 0, nil, ErrInvalidSignatureHeader
	}

	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return 0, nil, ErrInvalidSignatureHeader
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignatureHeader
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		default:
			// Unknown schemes are skipped so the provider can roll keys.
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignatureHeader
	}

	return timestamp, signatures, nil
}
