package cart

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

// ProductReader is the slice of the catalog the cart boundary needs for
// stock checks.
type ProductReader interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type UseCase interface {
	GetCart(ctx context.Context) *dto.CartView
	AddItem(ctx context.Context, input *dto.AddItemInput) (*dto.CartView, error)
	UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*dto.CartView, error)
	RemoveItem(ctx context.Context, itemID string) (*dto.CartView, error)
	ClearCart(ctx context.Context) *dto.CartView
	SetRates(ctx context.Context, input *dto.SetRatesInput) (*dto.CartView, error)
}
