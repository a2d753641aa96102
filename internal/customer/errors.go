package customer

import "errors"

var (
	ErrNameRequired      = errors.New("customer name is required")
	ErrPhoneRequired     = errors.New("customer phone is required")
	ErrVehicleIncomplete = errors.New("vehicle make, model and license plate are required")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")
)
