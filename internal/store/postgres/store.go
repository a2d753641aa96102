// Package postgres implements the repositories and the sale committer on
// PostgreSQL through sqlx and the pgx stdlib driver.
package postgres

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/store"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    seq         BIGSERIAL,
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL,
    price       BIGINT NOT NULL CHECK (price >= 0),
    stock       INTEGER NOT NULL CHECK (stock >= 0),
    description TEXT,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (
    seq        BIGSERIAL,
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    phone      TEXT NOT NULL,
    vehicles   JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    seq           BIGSERIAL,
    id            TEXT PRIMARY KEY,
    date          TIMESTAMPTZ NOT NULL,
    customer_id   TEXT,
    customer_name TEXT,
    items         JSONB NOT NULL,
    subtotal      BIGINT NOT NULL,
    discount      BIGINT NOT NULL,
    tax           BIGINT NOT NULL,
    total         BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS transactions_customer_idx ON transactions (customer_id);
CREATE INDEX IF NOT EXISTS transactions_date_idx ON transactions (date);

CREATE TABLE IF NOT EXISTS inventory_movements (
    seq             BIGSERIAL,
    id              TEXT PRIMARY KEY,
    product_id      TEXT NOT NULL,
    movement_type   TEXT NOT NULL,
    quantity_change INTEGER NOT NULL,
    quantity_before INTEGER NOT NULL,
    quantity_after  INTEGER NOT NULL,
    reference_type  TEXT,
    reference_id    TEXT,
    notes           TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS inventory_movements_product_idx ON inventory_movements (product_id);
`

const (
	productColumns     = `id, name, category, price, stock, description, created_at, updated_at`
	customerColumns    = `id, name, phone, vehicles, created_at, updated_at`
	transactionColumns = `id, date, customer_id, customer_name, items, subtotal, discount, tax, total`
	movementColumns    = `id, product_id, movement_type, quantity_change, quantity_before, quantity_after, reference_type, reference_id, notes, created_at`
)

type Store struct {
	DB     *sqlx.DB
	logger logger.ZapLogger
}

func New(db *sqlx.DB, log logger.ZapLogger) *Store {
	return &Store{DB: db, logger: log}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// SeedIfEmpty loads the default shop data into a database without products.
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	var n int
	if err := s.DB.GetContext(ctx, &n, `SELECT count(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	data := store.Seed()
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range data.Products {
		if _, err := tx.NamedExecContext(ctx, insertProduct, &data.Products[i]); err != nil {
			return fmt.Errorf("seed product: %w", err)
		}
	}
	for i := range data.Customers {
		if _, err := tx.NamedExecContext(ctx, insertCustomer, &data.Customers[i]); err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}
	}
	for i := len(data.Transactions) - 1; i >= 0; i-- {
		if _, err := tx.NamedExecContext(ctx, insertTransaction, &data.Transactions[i]); err != nil {
			return fmt.Errorf("seed transaction: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("seeded default shop data", zap.Int("products", len(data.Products)))
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// paging renders LIMIT/OFFSET for a 1-based page. Values are ints, never
// user strings.
func paging(page, size int) string {
	if size <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", size, (page-1)*size)
}

func where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	out := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		out += " AND " + c
	}
	return out
}

// selectNamed expands named args, rebinds for pgx and runs a select.
func selectNamed(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args map[string]interface{}) error {
	bound, list, err := sqlx.Named(query, args)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(bound), list...)
}

func getNamed(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args map[string]interface{}) error {
	bound, list, err := sqlx.Named(query, args)
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, q, dest, q.Rebind(bound), list...)
}
