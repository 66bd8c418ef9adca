package verification

import "errors"

var (
	ErrRequestNotFound        = errors.New("verification request not found")
	ErrRequestAlreadyResolved = errors.New("verification request already resolved")
	ErrMessageRequired        = errors.New("message is required")
	ErrNotCreative            = errors.New("only creatives can request verification")
	ErrInvalidStatus          = errors.New("invalid verification status")
)
