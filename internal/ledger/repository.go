package ledger

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

// Repository reads the ledger. Transactions are only ever written by a sale
// commit, so there is no create, update or delete here.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
	// FindAll returns matches newest first.
	FindAll(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error)
}
