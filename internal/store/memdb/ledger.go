package memdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/store"
	"github.com/hashicorp/go-memdb"
)

type LedgerRepository struct {
	s *Store
}

var (
	_ ledger.Repository  = (*LedgerRepository)(nil)
	_ checkout.Committer = (*Store)(nil)
)

func (s *Store) Ledger() *LedgerRepository {
	return &LedgerRepository{s: s}
}

func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableTransactions, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find transaction %s: %w", id, err)
	}
	if obj == nil {
		return nil, nil
	}
	t := cloneTransaction(obj.(*transactionRow).Txn)
	return &t, nil
}

func (r *LedgerRepository) FindAll(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, int, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	var rows []*transactionRow
	if f.CustomerID != "" {
		it, err := txn.Get(tableTransactions, "customer", f.CustomerID)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer transactions: %w", err)
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			rows = append(rows, obj.(*transactionRow))
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Seq > rows[j].Seq })
	} else {
		err := r.s.each(txn, tableTransactions, true, func(obj interface{}) {
			rows = append(rows, obj.(*transactionRow))
		})
		if err != nil {
			return nil, 0, err
		}
	}

	matched := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		if f.Match(&row.Txn) {
			matched = append(matched, cloneTransaction(row.Txn))
		}
	}
	return store.Page(matched, f.Page, f.PageSize), len(matched), nil
}

type writeView struct {
	txn *memdb.Txn
}

func (v writeView) LockProduct(ctx context.Context, id string) (*model.Product, error) {
	row, err := findProduct(v.txn, id)
	if err != nil || row == nil {
		return nil, err
	}
	p := row.Product
	return &p, nil
}

// CommitSale applies the plan's stock writes and prepends txn to the ledger
// in one memdb write transaction.
func (s *Store) CommitSale(ctx context.Context, t *model.Transaction, plan checkout.SalePlan) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		changes, err := plan(ctx, writeView{txn: txn})
		if err != nil {
			return err
		}
		for _, c := range changes {
			if err := applyStockChange(txn, s.nextSeq(), c); err != nil {
				return err
			}
		}
		return txn.Insert(tableTransactions, newTransactionRow(s.nextSeq(), *t))
	})
}

func applyStockChange(txn *memdb.Txn, seq uint64, c model.StockChange) error {
	row, err := findProduct(txn, c.ProductID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("apply stock change: product %s vanished", c.ProductID)
	}
	p := row.Product
	p.Stock = c.NewStock
	p.UpdatedAt = c.Movement.CreatedAt
	if err := txn.Insert(tableProducts, &productRow{Seq: row.Seq, Product: p}); err != nil {
		return fmt.Errorf("update stock of %s: %w", c.ProductID, err)
	}
	return txn.Insert(tableMovements, &movementRow{Seq: seq, InventoryMovement: c.Movement})
}
