package usecases

import (
	"context"

	billingusecases "listcraft/internal/application/billing/usecases"
	"listcraft/internal/domain/listing"
)

// GenerationRequest carries the structured listing fields into the prompt.
type GenerationRequest struct {
	Title        string
	PropertyType string
	Bedrooms     uint
	Bathrooms    uint
	SquareFeet   uint
	Location     string
	Features     []string
	Tone         listing.Tone
}

// TextGenerator produces a listing description from structured fields.
type TextGenerator interface {
	GenerateDescription(ctx context.Context, req GenerationRequest) (string, error)
}

// QuotaGate is the slice of the quota service the generation workflow
// needs: a cheap pre-check and the authoritative consume.
type QuotaGate interface {
	CheckQuota(ctx context.Context, userID uint) (*billingusecases.QuotaStatus, error)
	Consume(ctx context.Context, userID uint, delta uint64) (*billingusecases.QuotaStatus, error)
}

// QuotaNotifier sends the quota warning email. Failures are swallowed by
// the implementation.
type QuotaNotifier interface {
	QuotaThresholdReached(ctx context.Context, userID uint, percent int, used uint64, limit int64)
}
