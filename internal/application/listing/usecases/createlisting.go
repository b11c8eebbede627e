package usecases

import (
	"context"
	"fmt"

	"listcraft/internal/domain/listing"
	"listcraft/internal/shared/logger"
)

type CreateListingCommand struct {
	UserID       uint
	Title        string
	PropertyType string
	Bedrooms     uint
	Bathrooms    uint
	SquareFeet   uint
	Location     string
	Features     []string
}

type CreateListingUseCase struct {
	listingRepo listing.ListingRepository
	logger      logger.Interface
}

func NewCreateListingUseCase(listingRepo listing.ListingRepository, logger logger.Interface) *CreateListingUseCase {
	return &CreateListingUseCase{listingRepo: listingRepo, logger: logger}
}

func (uc *CreateListingUseCase) Execute(ctx context.Context, cmd CreateListingCommand) (*listing.Listing, error) {
	l, err := listing.NewListing(cmd.UserID, cmd.Title, cmd.PropertyType,
		cmd.Bedrooms, cmd.Bathrooms, cmd.SquareFeet, cmd.Location, cmd.Features)
	if err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	uc.logger.Infow("listing created",
		"listing_id", l.ID(),
		"user_id", cmd.UserID,
	)
	return l, nil
}
