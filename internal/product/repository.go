package product

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	// Update replaces the stored product with the same id. Unknown ids are
	// left alone.
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	// Metered products with stock below threshold, lowest stock first.
	ListLowStock(ctx context.Context, threshold, limit int) ([]model.Product, error)
	Count(ctx context.Context) (int, error)
}
