package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/cart/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/httpx"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Delete("/cart", h.clearCart)
	r.Get("/cart/totals", h.getTotals)
	r.Put("/cart/rates", h.setRates)
	r.Post("/cart/items", h.addItem)
	r.Patch("/cart/items/{id}", h.updateQuantity)
	r.Delete("/cart/items/{id}", h.removeItem)
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.uc.GetCart(r.Context()))
}

func (h *CartHandler) getTotals(w http.ResponseWriter, r *http.Request) {
	v := h.uc.GetCart(r.Context())
	httpx.WriteJSON(w, http.StatusOK, cart.Totals{
		Subtotal:       v.Subtotal,
		TaxAmount:      v.TaxAmount,
		DiscountAmount: v.DiscountAmount,
		Total:          v.Total,
	})
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.uc.ClearCart(r.Context()))
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var input dto.AddItemInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	v, err := h.uc.AddItem(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateQuantityInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	input.ItemID = chi.URLParam(r, "id")

	v, err := h.uc.UpdateQuantity(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	v, err := h.uc.RemoveItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *CartHandler) setRates(w http.ResponseWriter, r *http.Request) {
	var input dto.SetRatesInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	v, err := h.uc.SetRates(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}
