package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/broker"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL       = 15 * time.Second
	referenceSale = "transaction"
	producerName  = "workshop-pos"
)

type Config struct {
	Cart      *cart.Cart
	Customers CustomerReader
	Committer Committer
	Logger    logger.ZapLogger
	Shop      string

	// Optional side channels.
	Locker      Locker
	Publisher   Publisher
	Catalog     CatalogNotifier

	Now func() time.Time
}

// Engine turns the cart into a committed Transaction. Checkouts are
// serialized in-process and, when a Locker is set, across instances.
type Engine struct {
	mu sync.Mutex

	cart        *cart.Cart
	customers   CustomerReader
	committer   Committer
	locker      Locker
	publisher   Publisher
	catalog     CatalogNotifier
	logger      logger.ZapLogger
	shop        string
	now         func() time.Time
	newID       func() string
}

func NewEngine(cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		cart:        cfg.Cart,
		customers:   cfg.Customers,
		committer:   cfg.Committer,
		locker:      cfg.Locker,
		publisher:   cfg.Publisher,
		catalog:     cfg.Catalog,
		logger:      log,
		shop:        cfg.Shop,
		now:         now,
		newID:       uuid.NewString,
	}
}

func (e *Engine) lockKey() string {
	return fmt.Sprintf("lock:checkout:%s", e.shop)
}

// Checkout commits the cart. Stock is decremented and floored at zero for
// metered lines in cart order; products missing from the catalog are
// skipped. The cart is cleared only if the commit succeeds.
func (e *Engine) Checkout(ctx context.Context, opts Options) (*model.Transaction, error) {
	if (opts.Discount != nil && *opts.Discount < 0) || (opts.Tax != nil && *opts.Tax < 0) {
		return nil, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locker != nil {
		token := uuid.NewString()
		ok, err := e.locker.AcquireLock(ctx, e.lockKey(), token, lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire checkout lock: %w", err)
		}
		if !ok {
			return nil, ErrCheckoutBusy
		}
		defer func() {
			if err := e.locker.ReleaseLock(context.Background(), e.lockKey(), token); err != nil {
				e.logger.Warn("failed to release checkout lock", zap.Error(err))
			}
		}()
	}

	customer, err := e.resolveCustomer(ctx, opts.CustomerID)
	if err != nil {
		return nil, err
	}

	var (
		txn   *model.Transaction
		moved []string
	)
	err = e.cart.Drain(func(s cart.Snapshot) error {
		if opts.RejectEmpty && len(s.Items) == 0 {
			return ErrEmptyCart
		}
		txn = e.buildTransaction(s, customer, opts)
		plan := e.plan(txn)
		return e.committer.CommitSale(ctx, txn, func(ctx context.Context, v StockView) ([]model.StockChange, error) {
			changes, err := plan(ctx, v)
			moved = movedProducts(changes)
			return changes, err
		})
	})
	if err != nil {
		if !errors.Is(err, ErrEmptyCart) {
			e.logger.Error("checkout failed", zap.Error(err))
		}
		return nil, err
	}

	e.afterCommit(ctx, txn, moved)
	return txn, nil
}

// resolveCustomer returns nil for walk-in sales, including unknown ids.
func (e *Engine) resolveCustomer(ctx context.Context, id *string) (*model.Customer, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	c, err := e.customers.FindByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	return c, nil
}

func (e *Engine) buildTransaction(s cart.Snapshot, customer *model.Customer, opts Options) *model.Transaction {
	discount := s.Totals.DiscountAmount
	if opts.Discount != nil {
		discount = *opts.Discount
	}
	tax := s.Totals.TaxAmount
	if opts.Tax != nil {
		tax = *opts.Tax
	}

	txn := &model.Transaction{
		ID:       e.newID(),
		Date:     e.now().UTC(),
		Items:    model.LineItems(s.Items),
		Subtotal: s.Totals.Subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    s.Totals.Subtotal + tax - discount,
	}
	if txn.Items == nil {
		txn.Items = model.LineItems{}
	}
	if customer != nil {
		id, name := customer.ID, customer.Name
		txn.CustomerID = &id
		txn.CustomerName = &name
	}
	return txn
}

// plan decrements stock for every metered line. A product that appears on
// two lines sees the first decrement before the second.
func (e *Engine) plan(txn *model.Transaction) SalePlan {
	return func(ctx context.Context, stock StockView) ([]model.StockChange, error) {
		current := make(map[string]int)
		var changes []model.StockChange

		for _, it := range txn.Items {
			before, seen := current[it.ProductID]
			if !seen {
				p, err := stock.LockProduct(ctx, it.ProductID)
				if err != nil {
					return nil, fmt.Errorf("lock product %s: %w", it.ProductID, err)
				}
				if p == nil || p.Unlimited() {
					continue
				}
				before = p.Stock
			}

			after := before - it.Quantity
			if after < 0 {
				after = 0
			}
			current[it.ProductID] = after

			refType, refID := referenceSale, txn.ID
			changes = append(changes, model.StockChange{
				ProductID: it.ProductID,
				NewStock:  after,
				Movement: model.InventoryMovement{
					ID:             e.newID(),
					ProductID:      it.ProductID,
					MovementType:   model.MovementSale,
					QuantityChange: after - before,
					QuantityBefore: before,
					QuantityAfter:  after,
					ReferenceType:  &refType,
					ReferenceID:    &refID,
					Notes:          fmt.Sprintf("sale of %d x %s", it.Quantity, it.Name),
					CreatedAt:      txn.Date,
				},
			})
		}
		return changes, nil
	}
}

// movedProducts lists each product id once, in first-seen order.
func movedProducts(changes []model.StockChange) []string {
	seen := make(map[string]bool, len(changes))
	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		if !seen[c.ProductID] {
			seen[c.ProductID] = true
			ids = append(ids, c.ProductID)
		}
	}
	return ids
}

func (e *Engine) afterCommit(ctx context.Context, txn *model.Transaction, moved []string) {
	e.logger.Info("transaction committed",
		zap.String("transaction_id", txn.ID),
		zap.Int64("total", txn.Total),
		zap.Int("items", len(txn.Items)),
		zap.Bool("walk_in", txn.WalkIn()),
	)

	if e.catalog != nil {
		e.catalog.StockChanged(ctx, moved...)
	}

	if e.publisher != nil {
		env, err := broker.NewEnvelope(broker.EventTransactionCommitted, producerName, txn.ID,
			CommittedPayload{Transaction: *txn, Shop: e.shop})
		if err != nil {
			e.logger.Error("failed to build transaction event", zap.Error(err))
			return
		}
		if err := e.publisher.Publish(ctx, txn.ID, env); err != nil {
			e.logger.Warn("failed to publish transaction event", zap.String("transaction_id", txn.ID), zap.Error(err))
		}
	}
}
