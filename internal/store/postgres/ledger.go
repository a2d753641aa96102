package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/jmoiron/sqlx"
)

const insertTransaction = `
    INSERT INTO transactions (` + transactionColumns + `)
    VALUES (:id, :date, :customer_id, :customer_name, :items, :subtotal, :discount, :tax, :total)
`

const insertMovement = `
    INSERT INTO inventory_movements (` + movementColumns + `)
    VALUES (:id, :product_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_at)
`

const selectProductForUpdate = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

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
	var t model.Transaction
	err := r.s.DB.GetContext(ctx, &t, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *LedgerRepository) FindAll(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.From != nil {
		conditions = append(conditions, "date >= :date_from")
		args["date_from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "date < :date_to")
		args["date_to"] = *f.To
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(id ILIKE :search OR customer_name ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	whereClause := where(conditions)

	var count int
	if err := getNamed(ctx, r.s.DB, &count, "SELECT count(*) FROM transactions"+whereClause, args); err != nil {
		return nil, 0, err
	}

	txns := []model.Transaction{}
	query := "SELECT " + transactionColumns + " FROM transactions" + whereClause + " ORDER BY seq DESC" + paging(f.Page, f.PageSize)
	if err := selectNamed(ctx, r.s.DB, &txns, query, args); err != nil {
		return nil, 0, err
	}
	return txns, count, nil
}

type txView struct {
	tx *sqlx.Tx
}

func (v txView) LockProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := v.tx.GetContext(ctx, &p, selectProductForUpdate, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CommitSale runs the plan against rows locked FOR UPDATE and writes the
// stock changes, their movements and the transaction in one SQL transaction.
func (s *Store) CommitSale(ctx context.Context, t *model.Transaction, plan checkout.SalePlan) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	changes, err := plan(ctx, txView{tx: tx})
	if err != nil {
		return err
	}
	for _, c := range changes {
		if err := applyStockChange(ctx, tx, c); err != nil {
			return err
		}
	}
	if _, err := tx.NamedExecContext(ctx, insertTransaction, t); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return tx.Commit()
}

func applyStockChange(ctx context.Context, tx *sqlx.Tx, c model.StockChange) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = $1, updated_at = $2 WHERE id = $3`,
		c.NewStock, c.Movement.CreatedAt, c.ProductID)
	if err != nil {
		return fmt.Errorf("failed to update stock of %s: %w", c.ProductID, err)
	}
	if _, err := tx.NamedExecContext(ctx, insertMovement, &c.Movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}
