package inventory

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
