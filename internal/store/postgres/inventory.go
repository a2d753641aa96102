package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-workshop-pos/internal/inventory"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type InventoryRepository struct {
	s *Store
}

var _ inventory.Repository = (*InventoryRepository)(nil)

func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{s: s}
}

func (r *InventoryRepository) AdjustStock(ctx context.Context, productID string, fn inventory.AdjustFunc) (*model.Product, error) {
	tx, err := r.s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var p model.Product
	if err := tx.GetContext(ctx, &p, selectProductForUpdate, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	change, err := fn(p)
	if err != nil {
		return nil, err
	}
	if err := applyStockChange(ctx, tx, change); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	p.Stock = change.NewStock
	p.UpdatedAt = change.Movement.CreatedAt
	return &p, nil
}

func (r *InventoryRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}
	whereClause := where(conditions)

	var count int
	if err := getNamed(ctx, r.s.DB, &count, "SELECT count(*) FROM inventory_movements"+whereClause, args); err != nil {
		return nil, 0, err
	}

	items := []model.InventoryMovement{}
	query := "SELECT " + movementColumns + " FROM inventory_movements" + whereClause + " ORDER BY seq DESC" + paging(f.Page, f.PageSize)
	if err := selectNamed(ctx, r.s.DB, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
