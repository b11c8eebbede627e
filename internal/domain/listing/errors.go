package listing

import "errors"

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrListingForbidden = errors.New("listing belongs to another user")
	ErrInvalidTone      = errors.New("invalid description tone")
)
