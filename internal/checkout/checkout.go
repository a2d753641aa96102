package checkout

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/broker"
)

// Options mirror the checkout request. A nil Discount or Tax falls back to
// the amount the cart derives from its rate.
type Options struct {
	CustomerID *string `json:"customerId,omitempty"`
	Discount   *int64  `json:"discount,omitempty"`
	Tax        *int64  `json:"tax,omitempty"`
	// RejectEmpty makes an empty cart fail with ErrEmptyCart instead of
	// committing a zero transaction.
	RejectEmpty bool `json:"-"`
}

type CustomerReader interface {
	FindByID(ctx context.Context, id string) (*model.Customer, error)
}

// StockView reads products inside a sale commit. Stores lock the returned
// row until the commit ends.
type StockView interface {
	LockProduct(ctx context.Context, id string) (*model.Product, error)
}

// SalePlan computes the stock writes for a sale from the locked view.
type SalePlan func(ctx context.Context, stock StockView) ([]model.StockChange, error)

// Committer applies the stock writes of plan and prepends txn to the ledger
// as one unit. If plan or any write fails nothing is persisted.
type Committer interface {
	CommitSale(ctx context.Context, txn *model.Transaction, plan SalePlan) error
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type Publisher interface {
	Publish(ctx context.Context, key string, env broker.Envelope) error
}

// CatalogNotifier refreshes catalog caches and search documents after a
// sale moved stock.
type CatalogNotifier interface {
	StockChanged(ctx context.Context, productIDs ...string)
}

// CommittedPayload is the body of a TransactionCommitted event.
type CommittedPayload struct {
	Transaction model.Transaction `json:"transaction"`
	Shop        string            `json:"shop"`
}

type UseCase interface {
	Checkout(ctx context.Context, opts Options) (*model.Transaction, error)
}

var _ UseCase = (*Engine)(nil)
