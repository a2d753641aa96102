package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/customer"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/product"
)

var statusByError = []struct {
	err  error
	code int
}{
	{ErrInvalidJSON, http.StatusBadRequest},
	{cart.ErrInvalidQuantity, http.StatusBadRequest},
	{cart.ErrInvalidRate, http.StatusBadRequest},
	{checkout.ErrInvalidAmount, http.StatusBadRequest},
	{product.ErrNameRequired, http.StatusBadRequest},
	{product.ErrInvalidCategory, http.StatusBadRequest},
	{product.ErrInvalidPrice, http.StatusBadRequest},
	{product.ErrInvalidStock, http.StatusBadRequest},
	{customer.ErrNameRequired, http.StatusBadRequest},
	{customer.ErrPhoneRequired, http.StatusBadRequest},
	{customer.ErrVehicleIncomplete, http.StatusBadRequest},
	{inventory.ErrInvalidAdjustment, http.StatusBadRequest},
	{ledger.ErrInvalidDateRange, http.StatusBadRequest},

	{cart.ErrProductNotFound, http.StatusNotFound},
	{cart.ErrItemNotFound, http.StatusNotFound},
	{customer.ErrCustomerNotFound, http.StatusNotFound},
	{customer.ErrVehicleNotFound, http.StatusNotFound},
	{inventory.ErrProductNotFound, http.StatusNotFound},

	{cart.ErrOutOfStock, http.StatusConflict},
	{cart.ErrInsufficientStock, http.StatusConflict},
	{inventory.ErrInsufficientInventory, http.StatusConflict},
	{inventory.ErrUnmetered, http.StatusConflict},

	{checkout.ErrEmptyCart, http.StatusUnprocessableEntity},

	{checkout.ErrCheckoutBusy, http.StatusLocked},
	{inventory.ErrInventoryBusy, http.StatusLocked},

	{context.DeadlineExceeded, http.StatusServiceUnavailable},
}

// StatusFor maps a domain error to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	for _, s := range statusByError {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return http.StatusInternalServerError
}
