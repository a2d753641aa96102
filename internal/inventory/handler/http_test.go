package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/usecase"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/store/memdb"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (http.Handler, *memdb.Store) {
	t.Helper()
	s, err := memdb.New(memdb.Options{Seed: true})
	require.NoError(t, err)

	r := chi.NewRouter()
	NewInventoryHandler(usecase.NewInventoryUseCase(s.Inventory(), nil, nil, nil, logger.NewNop()), logger.NewNop()).Register(r)
	return r, s
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

func TestAdjustStockOverHTTP(t *testing.T) {
	r, s := newRouter(t)

	rec := do(r, http.MethodPost, "/inventory/4/adjust",
		`{"quantityChange":5,"movementType":"restock","reason":"delivery","referenceId":"PO-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 13, p.Stock)

	rec = do(r, http.MethodPost, "/inventory/4/adjust", `{"quantityChange":-2,"reason":"damaged"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := s.Products().FindByID(t.Context(), "4")
	require.NoError(t, err)
	assert.Equal(t, 11, stored.Stock)

	rec = do(r, http.MethodGet, "/inventory/movements?productId=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.MovementList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)

	rec = do(r, http.MethodGet, "/inventory/movements?productId=4&type=restock", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Movements, 1)
	assert.Equal(t, 8, list.Movements[0].QuantityBefore)
	assert.Equal(t, 13, list.Movements[0].QuantityAfter)
}

func TestAdjustStockErrors(t *testing.T) {
	r, s := newRouter(t)

	tests := []struct {
		name string
		url  string
		body string
		code int
	}{
		{"zero change", "/inventory/4/adjust", `{"quantityChange":0}`, http.StatusBadRequest},
		{"negative restock", "/inventory/4/adjust", `{"quantityChange":-1,"movementType":"restock"}`, http.StatusBadRequest},
		{"unknown type", "/inventory/4/adjust", `{"quantityChange":1,"movementType":"sale"}`, http.StatusBadRequest},
		{"below zero", "/inventory/4/adjust", `{"quantityChange":-9}`, http.StatusConflict},
		{"repair service", "/inventory/3/adjust", `{"quantityChange":1}`, http.StatusConflict},
		{"unknown product", "/inventory/42/adjust", `{"quantityChange":1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, tt.url, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}

	stored, err := s.Products().FindByID(t.Context(), "4")
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)

	rec := do(r, http.MethodGet, "/inventory/movements?productId=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"movements":[]`)
}
