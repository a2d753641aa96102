package product

import "errors"

var (
	ErrNameRequired    = errors.New("product name is required")
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
)
