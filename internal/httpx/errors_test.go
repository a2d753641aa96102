package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/customer"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		ErrInvalidJSON:              http.StatusBadRequest,
		cart.ErrInvalidRate:         http.StatusBadRequest,
		customer.ErrVehicleNotFound: http.StatusNotFound,
		cart.ErrInsufficientStock:   http.StatusConflict,
		inventory.ErrUnmetered:      http.StatusConflict,
		checkout.ErrEmptyCart:       http.StatusUnprocessableEntity,
		checkout.ErrCheckoutBusy:    http.StatusLocked,
		errors.New("disk on fire"):  http.StatusInternalServerError,
	}
	for err, code := range cases {
		assert.Equal(t, code, StatusFor(err), err.Error())
	}
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("remove line: %w", cart.ErrItemNotFound)))
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, logger.NewNop(), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Error)

	rec = httptest.NewRecorder()
	WriteError(rec, logger.NewNop(), cart.ErrOutOfStock)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "product is out of stock", body.Error)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Quantity int `json:"quantity"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":2}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, 2, v.Quantity)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"qty":2}`))
	assert.ErrorIs(t, DecodeJSON(r, &v), ErrInvalidJSON)
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&size=-1&bad=x", nil)
	assert.Equal(t, 3, QueryInt(r, "page", 1))
	assert.Equal(t, 10, QueryInt(r, "size", 10))
	assert.Equal(t, 7, QueryInt(r, "bad", 7))
	assert.Equal(t, 1, QueryInt(r, "missing", 1))
}
