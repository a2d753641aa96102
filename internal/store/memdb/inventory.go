package memdb

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/inventory"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/store"
	"github.com/hashicorp/go-memdb"
)

type InventoryRepository struct {
	s *Store
}

var _ inventory.Repository = (*InventoryRepository)(nil)

func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{s: s}
}

func (r *InventoryRepository) AdjustStock(ctx context.Context, productID string, fn inventory.AdjustFunc) (*model.Product, error) {
	var updated *model.Product
	err := r.s.write(ctx, func(txn *memdb.Txn) error {
		row, err := findProduct(txn, productID)
		if err != nil || row == nil {
			return err
		}
		change, err := fn(row.Product)
		if err != nil {
			return err
		}
		if err := applyStockChange(txn, r.s.nextSeq(), change); err != nil {
			return err
		}
		p := row.Product
		p.Stock = change.NewStock
		p.UpdatedAt = change.Movement.CreatedAt
		updated = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *InventoryRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	var matched []model.InventoryMovement
	err := r.s.each(txn, tableMovements, true, func(obj interface{}) {
		m := obj.(*movementRow).InventoryMovement
		if f.Match(&m) {
			matched = append(matched, m)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	if matched == nil {
		matched = []model.InventoryMovement{}
	}
	return store.Page(matched, f.Page, f.PageSize), len(matched), nil
}
