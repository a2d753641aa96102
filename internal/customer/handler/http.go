package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-workshop-pos/internal/customer"
	"github.com/fekuna/omnipos-workshop-pos/internal/customer/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/httpx"
	ledgerdto "github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	uc     customer.UseCase
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CustomerHandler) Register(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
		r.Get("/{id}/transactions", h.history)
		r.Post("/{id}/vehicles", h.addVehicle)
		r.Delete("/{id}/vehicles/{vehicleID}", h.removeVehicle)
	})
}

func (h *CustomerHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	filters := &dto.CustomerFilters{
		SearchQuery: r.URL.Query().Get("q"),
		Page:        httpx.QueryInt(r, "page", 1),
		PageSize:    httpx.QueryInt(r, "pageSize", 0),
	}
	customers, count, err := h.uc.ListCustomers(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	httpx.WriteJSON(w, http.StatusOK, dto.CustomerList{
		Customers: customers,
		Total:     count,
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	})
}

func (h *CustomerHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateCustomerInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	c, err := h.uc.CreateCustomer(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if c == nil {
		httpx.NotFound(w, "customer")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateCustomerInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	input.ID = chi.URLParam(r, "id")

	c, err := h.uc.UpdateCustomer(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if c == nil {
		httpx.NotFound(w, "customer")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) history(w http.ResponseWriter, r *http.Request) {
	page := httpx.QueryInt(r, "page", 1)
	pageSize := httpx.QueryInt(r, "pageSize", 0)

	txns, count, err := h.uc.CustomerHistory(r.Context(), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	httpx.WriteJSON(w, http.StatusOK, ledgerdto.TransactionList{
		Transactions: txns,
		Total:        count,
		Page:         page,
		PageSize:     pageSize,
	})
}

func (h *CustomerHandler) addVehicle(w http.ResponseWriter, r *http.Request) {
	var input dto.AddVehicleInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	input.CustomerID = chi.URLParam(r, "id")

	c, err := h.uc.AddVehicle(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) removeVehicle(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.RemoveVehicle(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "vehicleID"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}
