package inventory

import "errors"

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrUnmetered             = errors.New("repair services do not track stock")
	ErrInvalidAdjustment     = errors.New("invalid stock adjustment")
	ErrInventoryBusy         = errors.New("system busy, please try again later")
)
