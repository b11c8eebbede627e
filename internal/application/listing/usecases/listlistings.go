package usecases

import (
	"context"

	"listcraft/internal/domain/listing"
)

type ListListingsUseCase struct {
	listingRepo listing.ListingRepository
}

func NewListListingsUseCase(listingRepo listing.ListingRepository) *ListListingsUseCase {
	return &ListListingsUseCase{listingRepo: listingRepo}
}

func (uc *ListListingsUseCase) Execute(ctx context.Context, userID uint) ([]*listing.Listing, error) {
	return uc.listingRepo.ListByUser(ctx, userID)
}

type GetListingUseCase struct {
	listingRepo listing.ListingRepository
}

func NewGetListingUseCase(listingRepo listing.ListingRepository) *GetListingUseCase {
	return &GetListingUseCase{listingRepo: listingRepo}
}

func (uc *GetListingUseCase) Execute(ctx context.Context, userID, listingID uint) (*listing.Listing, error) {
	l, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, listing.ErrListingNotFound
	}
	if !l.IsOwnedBy(userID) {
		return nil, listing.ErrListingForbidden
	}
	return l, nil
}
