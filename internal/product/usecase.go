package product

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListLowStock(ctx context.Context, threshold, limit int) ([]model.Product, error)
	InvalidateCache(ctx context.Context)
	// StockChanged is called after stock writes made outside this use case.
	StockChanged(ctx context.Context, productIDs ...string)
}
