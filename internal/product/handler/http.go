package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-workshop-pos/internal/httpx"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/product"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Register(r chi.Router) {
	r.Get("/categories", h.listCategories)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/low-stock", h.listLowStock)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
}

type categoryResponse struct {
	ID      model.Category `json:"id"`
	Label   string         `json:"label"`
	Metered bool           `json:"metered"`
}

func (h *ProductHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	out := make([]categoryResponse, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		out = append(out, categoryResponse{ID: c, Label: c.Label(), Metered: c.Metered()})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.ProductFilters{
		Category:    model.Category(q.Get("category")),
		SearchQuery: q.Get("q"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
		Page:        httpx.QueryInt(r, "page", 1),
		PageSize:    httpx.QueryInt(r, "pageSize", 0),
	}

	products, count, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	httpx.WriteJSON(w, http.StatusOK, dto.ProductList{
		Products: products,
		Total:    count,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}

func (h *ProductHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.uc.ListLowStock(r.Context(), httpx.QueryInt(r, "threshold", 0), httpx.QueryInt(r, "limit", 0))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	p, err := h.uc.CreateProduct(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if p == nil {
		httpx.NotFound(w, "product")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	input.ID = chi.URLParam(r, "id")

	p, err := h.uc.UpdateProduct(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if p == nil {
		httpx.NotFound(w, "product")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
