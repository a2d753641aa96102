package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/httpx"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	uc     checkout.UseCase
	logger logger.ZapLogger
}

func NewCheckoutHandler(uc checkout.UseCase, log logger.ZapLogger) *CheckoutHandler {
	return &CheckoutHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Post("/checkout", h.checkout)
}

// checkout rejects an empty cart unless ?allowEmpty=true is passed.
func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var opts checkout.Options
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &opts); err != nil {
			httpx.WriteError(w, h.logger, err)
			return
		}
	}
	allowEmpty, _ := strconv.ParseBool(r.URL.Query().Get("allowEmpty"))
	opts.RejectEmpty = !allowEmpty

	txn, err := h.uc.Checkout(r.Context(), opts)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, txn)
}
