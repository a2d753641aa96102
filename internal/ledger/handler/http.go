package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/httpx"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/receipt"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

type LedgerHandler struct {
	uc     ledger.UseCase
	shop   receipt.Shop
	now    func() time.Time
	logger logger.ZapLogger
}

func NewLedgerHandler(uc ledger.UseCase, shop receipt.Shop, log logger.ZapLogger) *LedgerHandler {
	if shop.Location == nil {
		shop.Location = time.Local
	}
	return &LedgerHandler{
		uc:     uc,
		shop:   shop,
		now:    time.Now,
		logger: log,
	}
}

func (h *LedgerHandler) Register(r chi.Router) {
	r.Get("/transactions", h.listTransactions)
	r.Get("/transactions/{id}", h.getTransaction)
	r.Get("/transactions/{id}/receipt", h.getReceipt)
	r.Get("/dashboard", h.dashboard)
}

// parseDay reads a YYYY-MM-DD query parameter as midnight in the shop's zone.
func (h *LedgerHandler) parseDay(r *http.Request, key string) (*time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, h.shop.Location)
	if err != nil {
		return nil, ledger.ErrInvalidDateRange
	}
	return &d, nil
}

func (h *LedgerHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	from, err := h.parseDay(r, "dateFrom")
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	to, err := h.parseDay(r, "dateTo")
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if to != nil {
		// dateTo names a whole day
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	filters := &dto.TransactionFilters{
		SearchQuery: r.URL.Query().Get("q"),
		CustomerID:  r.URL.Query().Get("customerId"),
		From:        from,
		To:          to,
		Page:        httpx.QueryInt(r, "page", 1),
		PageSize:    httpx.QueryInt(r, "pageSize", 0),
	}
	txns, count, err := h.uc.ListTransactions(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	httpx.WriteJSON(w, http.StatusOK, dto.TransactionList{
		Transactions: txns,
		Total:        count,
		Page:         filters.Page,
		PageSize:     filters.PageSize,
	})
}

func (h *LedgerHandler) getTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := h.uc.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if txn == nil {
		httpx.NotFound(w, "transaction")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txn)
}

func (h *LedgerHandler) getReceipt(w http.ResponseWriter, r *http.Request) {
	txn, err := h.uc.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	if txn == nil {
		httpx.NotFound(w, "transaction")
		return
	}
	httpx.WriteText(w, http.StatusOK, receipt.Render(txn, h.shop))
}

func (h *LedgerHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.uc.Summary(r.Context(), h.now())
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}
