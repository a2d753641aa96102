package checkout

import "errors"

var (
	ErrCheckoutBusy  = errors.New("another checkout is in progress")
	ErrInvalidAmount = errors.New("discount and tax must not be negative")
	ErrEmptyCart     = errors.New("cart is empty")
)
