package credits

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrNegativeBalance     = errors.New("balance cannot be negative")
	ErrInsufficientCredits = errors.New("insufficient credits")
)
