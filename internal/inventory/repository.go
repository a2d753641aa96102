package inventory

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

// AdjustFunc computes a stock change from the current product row.
type AdjustFunc func(p model.Product) (model.StockChange, error)

type Repository interface {
	// AdjustStock applies fn to the locked product and writes the new stock
	// together with its movement. It returns nil when the product does not
	// exist.
	AdjustStock(ctx context.Context, productID string, fn AdjustFunc) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
