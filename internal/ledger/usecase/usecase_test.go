package usecase

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/receipt"
	"github.com/fekuna/omnipos-workshop-pos/internal/store/memdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noStock checkout.SalePlan = func(context.Context, checkout.StockView) ([]model.StockChange, error) {
	return nil, nil
}

func newUseCase(t *testing.T, threshold int) (ledger.UseCase, *memdb.Store) {
	t.Helper()
	s, err := memdb.New(memdb.Options{Seed: true})
	require.NoError(t, err)
	uc := NewLedgerUseCase(s.Ledger(), s.Products(), s.Customers(), nil,
		Config{Shop: receipt.Shop{Location: time.UTC}, LowStockThreshold: threshold}, logger.NewNop())
	return uc, s
}

func sale(t *testing.T, s *memdb.Store, id string, at time.Time, total int64) {
	t.Helper()
	txn := &model.Transaction{ID: id, Date: at, Subtotal: total, Total: total}
	require.NoError(t, s.CommitSale(context.Background(), txn, noStock))
}

func TestListTransactions(t *testing.T) {
	uc, s := newUseCase(t, 5)
	ctx := context.Background()

	sale(t, s, "2", time.Date(2023, 12, 2, 9, 0, 0, 0, time.UTC), 100000)
	sale(t, s, "3", time.Date(2023, 12, 3, 9, 0, 0, 0, time.UTC), 50000)

	all, count, err := uc.ListTransactions(ctx, &dto.TransactionFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, "3", all[0].ID)

	from := time.Date(2023, 12, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	day, _, err := uc.ListTransactions(ctx, &dto.TransactionFilters{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "2", day[0].ID)

	budi, _, err := uc.ListTransactions(ctx, &dto.TransactionFilters{SearchQuery: "budi"})
	require.NoError(t, err)
	require.Len(t, budi, 1)
	assert.Equal(t, "1", budi[0].ID)

	_, _, err = uc.ListTransactions(ctx, &dto.TransactionFilters{From: &to, To: &from})
	assert.ErrorIs(t, err, ledger.ErrInvalidDateRange)
}

func TestGetTransaction(t *testing.T) {
	uc, _ := newUseCase(t, 5)

	txn, err := uc.GetTransaction(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(423500), txn.Total)
	assert.True(t, txn.Balanced())

	missing, err := uc.GetTransaction(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSummary(t *testing.T) {
	uc, s := newUseCase(t, 10)
	now := time.Date(2023, 12, 5, 15, 0, 0, 0, time.UTC)

	sale(t, s, "2", time.Date(2023, 12, 5, 8, 0, 0, 0, time.UTC), 100000)
	sale(t, s, "3", time.Date(2023, 12, 4, 20, 0, 0, 0, time.UTC), 50000)
	sale(t, s, "4", time.Date(2023, 11, 30, 12, 0, 0, 0, time.UTC), 70000)
	sale(t, s, "5", time.Date(2023, 11, 20, 12, 0, 0, 0, time.UTC), 999000)

	sum, err := uc.Summary(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), sum.TodayRevenue)
	// Seed sale of 1 Dec counts toward the month; the November sales do not.
	assert.Equal(t, int64(100000+50000+423500), sum.MonthRevenue)

	require.Len(t, sum.Last7Days, 7)
	assert.Equal(t, "11-29", sum.Last7Days[0].Date)
	assert.Equal(t, "12-05", sum.Last7Days[6].Date)
	assert.Equal(t, int64(70000), sum.Last7Days[1].Revenue)
	assert.Equal(t, int64(50000), sum.Last7Days[5].Revenue)
	assert.Equal(t, int64(100000), sum.Last7Days[6].Revenue)

	assert.Equal(t, 5, sum.ProductCount)
	assert.Equal(t, 2, sum.CustomerCount)
	require.Len(t, sum.RecentTransactions, 5)
	assert.Equal(t, "5", sum.RecentTransactions[0].ID)
	require.Len(t, sum.LowStock, 1)
	assert.Equal(t, "Brake Pad Set", sum.LowStock[0].Name)
}

func TestSummaryTrendAcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	s, err := memdb.New(memdb.Options{Seed: true})
	require.NoError(t, err)
	uc := NewLedgerUseCase(s.Ledger(), s.Products(), s.Customers(), nil,
		Config{Shop: receipt.Shop{Location: ny}, LowStockThreshold: 5}, logger.NewNop())

	// clocks moved forward on 10 March 2024
	sale(t, s, "2", time.Date(2024, 3, 11, 12, 0, 0, 0, ny), 80000)
	sale(t, s, "3", time.Date(2024, 3, 9, 23, 30, 0, 0, ny), 20000)

	sum, err := uc.Summary(context.Background(), time.Date(2024, 3, 12, 10, 0, 0, 0, ny))
	require.NoError(t, err)

	byDate := map[string]int64{}
	for _, d := range sum.Last7Days {
		byDate[d.Date] = d.Revenue
	}
	assert.Equal(t, "03-06", sum.Last7Days[0].Date)
	assert.Equal(t, int64(80000), byDate["03-11"])
	assert.Equal(t, int64(20000), byDate["03-09"])
	assert.Zero(t, byDate["03-10"])
	assert.Zero(t, sum.TodayRevenue)
}

func TestSummaryEmptyDay(t *testing.T) {
	uc, _ := newUseCase(t, 5)

	sum, err := uc.Summary(context.Background(), time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, sum.TodayRevenue)
	assert.Zero(t, sum.MonthRevenue)
	assert.NotNil(t, sum.LowStock)
	assert.Len(t, sum.RecentTransactions, 1)
}

func TestIndexReceiptWithoutSearch(t *testing.T) {
	uc, _ := newUseCase(t, 5)
	assert.NoError(t, uc.IndexReceipt(context.Background(), &model.Transaction{ID: "x"}))
}
