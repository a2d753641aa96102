package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/cart/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/cart/usecase"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/store/memdb"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	s, err := memdb.New(memdb.Options{Seed: true})
	require.NoError(t, err)

	c := cart.New(decimal.NewFromInt(10), decimal.Zero)
	r := chi.NewRouter()
	NewCartHandler(usecase.NewCartUseCase(c, s.Products(), logger.NewNop()), logger.NewNop()).Register(r)
	return r
}

func do(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) dto.CartView {
	t.Helper()
	var v dto.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestAddItemAndTotals(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decodeView(t, rec).Items)

	rec = do(r, http.MethodPost, "/cart/items", `{"productId":"4","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decodeView(t, rec)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Brake Pad Set", v.Items[0].Name)
	assert.Equal(t, int64(750000), v.Subtotal)
	assert.Equal(t, int64(75000), v.TaxAmount)
	assert.Equal(t, int64(825000), v.Total)

	rec = do(r, http.MethodGet, "/cart/totals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var totals cart.Totals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.Equal(t, int64(825000), totals.Total)
}

func TestAddItemErrors(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/cart/items", `{"productId":"4","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"beyond stock with cart quantity", `{"productId":"4","quantity":7}`, http.StatusConflict},
		{"unknown product", `{"productId":"42","quantity":1}`, http.StatusNotFound},
		{"zero quantity", `{"productId":"1","quantity":0}`, http.StatusBadRequest},
		{"unknown field", `{"productId":"1","qty":1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/cart/items", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}

	// repair services are not limited by stock
	rec = do(r, http.MethodPost, "/cart/items", `{"productId":"3","quantity":5000}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpdateAndRemoveItem(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/cart/items", `{"productId":"1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	itemID := decodeView(t, rec).Items[0].ID

	rec = do(r, http.MethodPatch, "/cart/items/"+itemID, `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decodeView(t, rec).Items[0].Quantity)

	rec = do(r, http.MethodPatch, "/cart/items/"+itemID, `{"quantity":21}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(r, http.MethodPatch, "/cart/items/nope", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodDelete, "/cart/items/"+itemID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Items)

	rec = do(r, http.MethodDelete, "/cart/items/"+itemID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetRatesAndClear(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/cart/items", `{"productId":"4","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPut, "/cart/rates", `{"taxRate":"0","discountRate":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decodeView(t, rec)
	assert.Zero(t, v.TaxAmount)
	assert.Equal(t, int64(37500), v.DiscountAmount)
	assert.Equal(t, int64(712500), v.Total)

	rec = do(r, http.MethodPut, "/cart/rates", `{"taxRate":"101"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Empty(t, v.Items)
	assert.Zero(t, v.Total)
	assert.True(t, v.DiscountRate.Equal(decimal.NewFromInt(5)))
}
