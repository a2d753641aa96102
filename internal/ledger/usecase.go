package ledger

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type UseCase interface {
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error)
	Summary(ctx context.Context, now time.Time) (*dto.Summary, error)
	// IndexReceipt makes a committed transaction searchable.
	IndexReceipt(ctx context.Context, txn *model.Transaction) error
}
