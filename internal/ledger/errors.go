package ledger

import "errors"

var ErrInvalidDateRange = errors.New("dateFrom must not be after dateTo")
