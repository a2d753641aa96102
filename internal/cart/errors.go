package cart

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidRate       = errors.New("rate must be between 0 and 100")
)
