package usecases

import (
	"context"
	"fmt"

	billingusecases "listcraft/internal/application/billing/usecases"
	"listcraft/internal/domain/billing"
	"listcraft/internal/domain/listing"
	"listcraft/internal/shared/goroutine"
	"listcraft/internal/shared/logger"
)

type GenerateDescriptionCommand struct {
	UserID    uint
	ListingID uint
	Tone      listing.Tone
}

type GenerateDescriptionResult struct {
	Listing *listing.Listing
	Quota   *billingusecases.QuotaStatus
}

// GenerateDescriptionUseCase runs the quota-gated generation workflow:
// check the allowance, call the text generator, charge the quota, persist
// the description. A failed generation charges nothing.
type GenerateDescriptionUseCase struct {
	listingRepo  listing.ListingRepository
	quota        QuotaGate
	generator    TextGenerator
	notifier     QuotaNotifier
	reminderStep int
	logger       logger.Interface
}

func NewGenerateDescriptionUseCase(
	listingRepo listing.ListingRepository,
	quota QuotaGate,
	generator TextGenerator,
	notifier QuotaNotifier,
	reminderStep int,
	logger logger.Interface,
) *GenerateDescriptionUseCase {
	return &GenerateDescriptionUseCase{
		listingRepo:  listingRepo,
		quota:        quota,
		generator:    generator,
		notifier:     notifier,
		reminderStep: reminderStep,
		logger:       logger,
	}
}

func (uc *GenerateDescriptionUseCase) Execute(ctx context.Context, cmd GenerateDescriptionCommand) (*GenerateDescriptionResult, error) {
	if !listing.ValidTones[cmd.Tone] {
		return nil, listing.ErrInvalidTone
	}

	l, err := uc.listingRepo.GetByID(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, listing.ErrListingNotFound
	}
	if !l.IsOwnedBy(cmd.UserID) {
		return nil, listing.ErrListingForbidden
	}

	// Cheap rejection before spending a generation call. Consume re-checks
	// under a lock, so a race here cannot oversell the quota.
	pre, err := uc.quota.CheckQuota(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !pre.Allowed {
		return nil, billing.ErrQuotaExceeded
	}

	description, err := uc.generator.GenerateDescription(ctx, GenerationRequest{
		Title:        l.Title(),
		PropertyType: l.PropertyType(),
		Bedrooms:     l.Bedrooms(),
		Bathrooms:    l.Bathrooms(),
		SquareFeet:   l.SquareFeet(),
		Location:     l.Location(),
		Features:     l.Features(),
		Tone:         cmd.Tone,
	})
	if err != nil {
		uc.logger.Errorw("description generation failed",
			"listing_id", cmd.ListingID,
			"user_id", cmd.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("generate description: %w", err)
	}

	quotaStatus, err := uc.quota.Consume(ctx, cmd.UserID, 1)
	if err != nil {
		return nil, err
	}

	if err := l.SetGeneratedDescription(description, cmd.Tone); err != nil {
		return nil, err
	}
	if err := uc.listingRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("save listing: %w", err)
	}

	uc.maybeWarnQuota(cmd.UserID, quotaStatus)

	uc.logger.Infow("description generated",
		"listing_id", cmd.ListingID,
		"user_id", cmd.UserID,
		"tone", string(cmd.Tone),
		"quota_used", quotaStatus.Used,
	)

	return &GenerateDescriptionResult{Listing: l, Quota: quotaStatus}, nil
}

func (uc *GenerateDescriptionUseCase) maybeWarnQuota(userID uint, status *billingusecases.QuotaStatus) {
	if status.Unlimited || status.Limit <= 0 {
		return
	}

	prevPercent := int((status.Used - 1) * 100 / uint64(status.Limit))
	percent, warn := billingusecases.QuotaWarningThreshold(prevPercent, status.PercentUsed, status.Used, uc.reminderStep)
	if !warn {
		return
	}

	used, limit := status.Used, status.Limit
	goroutine.SafeGo(uc.logger, "quota-warning-email", func() {
		uc.notifier.QuotaThresholdReached(context.Background(), userID, percent, used, limit)
	})
}
