package listing

import "context"

// ListingRepository persists property listings. Lookups return nil when
// no row exists.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id uint) (*Listing, error)
	ListByUser(ctx context.Context, userID uint) ([]*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uint) error
}
