package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/search"
	"github.com/fekuna/omnipos-workshop-pos/internal/receipt"
	"go.uber.org/zap"
)

const (
	indexName     = "transactions"
	recentLimit   = 5
	lowStockLimit = 5
	trendDays     = 7
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"date": { "type": "date" },
			"customerId": { "type": "keyword" },
			"customerName": { "type": "text" },
			"items": {
				"properties": {
					"name": { "type": "text" },
					"productId": { "type": "keyword" }
				}
			},
			"total": { "type": "long" },
			"receipt": { "type": "text" }
		}
	}
}`

// CatalogStats is what the dashboard needs from the catalog.
type CatalogStats interface {
	Count(ctx context.Context) (int, error)
	ListLowStock(ctx context.Context, threshold, limit int) ([]model.Product, error)
}

type RosterStats interface {
	Count(ctx context.Context) (int, error)
}

type Config struct {
	Shop              receipt.Shop
	LowStockThreshold int
}

type ledgerUseCase struct {
	repo      ledger.Repository
	products  CatalogStats
	customers RosterStats
	es        *search.Client
	cfg       Config
	logger    logger.ZapLogger
}

// NewLedgerUseCase builds the ledger use case. es may be nil.
func NewLedgerUseCase(repo ledger.Repository, products CatalogStats, customers RosterStats, es *search.Client, cfg Config, log logger.ZapLogger) ledger.UseCase {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = 5
	}
	if cfg.Shop.Location == nil {
		cfg.Shop.Location = time.Local
	}
	return &ledgerUseCase{
		repo:      repo,
		products:  products,
		customers: customers,
		es:        es,
		cfg:       cfg,
		logger:    log,
	}
}

func (uc *ledgerUseCase) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *ledgerUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error) {
	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, 0, ledger.ErrInvalidDateRange
	}

	// ES only covers free-text receipt search; structured filters go to the store
	if filters.SearchQuery != "" && filters.CustomerID == "" && filters.From == nil && filters.To == nil && uc.es != nil {
		txns, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return txns, count, nil
		}
		uc.logger.Error("ES receipt search failed, falling back to DB", zap.Error(err))
	}

	return uc.repo.FindAll(ctx, filters)
}

func (uc *ledgerUseCase) searchElastic(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"id", "customerName^2", "items.name", "receipt"},
			},
		},
		"sort": []map[string]interface{}{
			{"date": map[string]interface{}{"order": "desc"}},
		},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	txns := make([]model.Transaction, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var t model.Transaction
		if err := json.Unmarshal(hit.Source, &t); err == nil {
			txns = append(txns, t)
		}
	}
	return txns, res.Hits.Total.Value, nil
}

type receiptDocument struct {
	model.Transaction
	Receipt string `json:"receipt"`
}

func (uc *ledgerUseCase) IndexReceipt(ctx context.Context, txn *model.Transaction) error {
	if uc.es == nil {
		return nil
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	doc := receiptDocument{Transaction: *txn, Receipt: receipt.Render(txn, uc.cfg.Shop)}
	if err := uc.es.Index(ctx, indexName, txn.ID, doc); err != nil {
		return fmt.Errorf("index receipt %s: %w", txn.ID, err)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summary aggregates revenue for the calendar day and month of now, in the
// shop's time zone, plus a seven-day trend ending today.
func (uc *ledgerUseCase) Summary(ctx context.Context, now time.Time) (*dto.Summary, error) {
	now = now.In(uc.cfg.Shop.Location)
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	trendStart := today.AddDate(0, 0, -(trendDays - 1))

	from := monthStart
	if trendStart.Before(from) {
		from = trendStart
	}
	txns, _, err := uc.repo.FindAll(ctx, &dto.TransactionFilters{From: &from, To: &tomorrow})
	if err != nil {
		return nil, err
	}

	summary := &dto.Summary{Last7Days: make([]dto.DailyRevenue, trendDays)}
	for i := range summary.Last7Days {
		summary.Last7Days[i].Date = trendStart.AddDate(0, 0, i).Format("01-02")
	}
	for _, t := range txns {
		at := t.Date.In(uc.cfg.Shop.Location)
		if !at.Before(today) {
			summary.TodayRevenue += t.Total
		}
		if !at.Before(monthStart) {
			summary.MonthRevenue += t.Total
		}
		if !at.Before(trendStart) {
			day := startOfDay(at)
			for i := range summary.Last7Days {
				if day.Equal(trendStart.AddDate(0, 0, i)) {
					summary.Last7Days[i].Revenue += t.Total
					break
				}
			}
		}
	}

	recent, _, err := uc.repo.FindAll(ctx, &dto.TransactionFilters{Page: 1, PageSize: recentLimit})
	if err != nil {
		return nil, err
	}
	summary.RecentTransactions = recent

	if summary.ProductCount, err = uc.products.Count(ctx); err != nil {
		return nil, err
	}
	if summary.CustomerCount, err = uc.customers.Count(ctx); err != nil {
		return nil, err
	}
	low, err := uc.products.ListLowStock(ctx, uc.cfg.LowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, err
	}
	if low == nil {
		low = []model.Product{}
	}
	summary.LowStock = low

	return summary, nil
}
