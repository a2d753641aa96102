package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/usecase"
	"github.com/fekuna/omnipos-workshop-pos/internal/store/memdb"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	s, err := memdb.New(memdb.Options{Seed: true})
	require.NoError(t, err)
	r := chi.NewRouter()
	NewProductHandler(usecase.NewProductUseCase(s.Products(), nil, nil, logger.NewNop()), logger.NewNop()).Register(r)
	return r
}

func send(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, url, strings.NewReader(body)))
	return rec
}

func TestCategories(t *testing.T) {
	rec := send(newRouter(t), http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cats []categoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 5)
	assert.Equal(t, model.CategoryRepair, cats[2].ID)
	assert.False(t, cats[2].Metered)
}

func TestProductLifecycle(t *testing.T) {
	r := newRouter(t)

	rec := send(r, http.MethodPost, "/products", `{"name":"Spark Plug","category":"spare-part","price":30000,"stock":40}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.NotEmpty(t, p.ID)

	rec = send(r, http.MethodPost, "/products", `{"name":"Mystery","category":"snacks","price":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(r, http.MethodGet, "/products?category=spare-part&sortBy=price&sortOrder=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.ProductList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, "Spark Plug", list.Products[0].Name)

	rec = send(r, http.MethodPut, "/products/"+p.ID, `{"name":"Spark Plug NGK","category":"spare-part","price":32000,"stock":40}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(r, http.MethodPut, "/products/nope", `{"name":"X","category":"oil","price":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = send(r, http.MethodDelete, "/products/"+p.ID, "")
	assert.Less(t, rec.Code, 300)
	rec = send(r, http.MethodGet, "/products/"+p.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLowStock(t *testing.T) {
	rec := send(newRouter(t), http.MethodGet, "/products/low-stock?threshold=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var low []model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &low))
	require.Len(t, low, 1)
	assert.Equal(t, "Brake Pad Set", low[0].Name)
}
