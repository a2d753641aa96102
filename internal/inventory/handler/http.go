package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-workshop-pos/internal/httpx"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Post("/{productID}/adjust", h.adjustStock)
		r.Get("/movements", h.listMovements)
	})
}

func (h *InventoryHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var input dto.AdjustStockInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	input.ProductID = chi.URLParam(r, "productID")

	p, err := h.uc.AdjustStock(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *InventoryHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	filters := &dto.MovementFilters{
		ProductID:    r.URL.Query().Get("productId"),
		MovementType: r.URL.Query().Get("type"),
		Page:         httpx.QueryInt(r, "page", 1),
		PageSize:     httpx.QueryInt(r, "pageSize", 0),
	}
	movements, count, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if movements == nil {
		movements = []model.InventoryMovement{}
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MovementList{
		Movements: movements,
		Total:     count,
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	})
}
