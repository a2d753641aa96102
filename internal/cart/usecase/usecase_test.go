package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/cart/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts map[string]model.Product

func (s stubProducts) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type failingProducts struct{ err error }

func (f failingProducts) FindByID(context.Context, string) (*model.Product, error) {
	return nil, f.err
}

func newProduct(id string, cat model.Category, price int64, stock int) model.Product {
	p := model.Product{Name: "P" + id, Category: cat, Price: price, Stock: stock}
	p.ID = id
	return p
}

func setup(t *testing.T) (cart.UseCase, *cart.Cart, stubProducts) {
	t.Helper()
	products := stubProducts{
		"filter":  newProduct("filter", model.CategorySparePart, 45000, 3),
		"empty":   newProduct("empty", model.CategoryOil, 85000, 0),
		"service": newProduct("service", model.CategoryRepair, 250000, 0),
	}
	c := cart.New(decimal.NewFromInt(10), decimal.Zero)
	return NewCartUseCase(c, products, logger.NewNop()), c, products
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prior   int
		input   dto.AddItemInput
		wantErr error
		wantQty int
	}{
		{name: "within stock", input: dto.AddItemInput{ProductID: "filter", Quantity: 2}, wantQty: 2},
		{name: "exactly stock after merge", prior: 1, input: dto.AddItemInput{ProductID: "filter", Quantity: 2}, wantQty: 3},
		{name: "over stock after merge", prior: 2, input: dto.AddItemInput{ProductID: "filter", Quantity: 2}, wantErr: cart.ErrInsufficientStock, wantQty: 2},
		{name: "zero stock", input: dto.AddItemInput{ProductID: "empty", Quantity: 1}, wantErr: cart.ErrOutOfStock},
		{name: "repair ignores stock", input: dto.AddItemInput{ProductID: "service", Quantity: 4}, wantQty: 4},
		{name: "unknown product", input: dto.AddItemInput{ProductID: "nope", Quantity: 1}, wantErr: cart.ErrProductNotFound},
		{name: "zero quantity", input: dto.AddItemInput{ProductID: "filter", Quantity: 0}, wantErr: cart.ErrInvalidQuantity},
		{name: "negative quantity", input: dto.AddItemInput{ProductID: "filter", Quantity: -1}, wantErr: cart.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, c, _ := setup(t)
			if tt.prior > 0 {
				_, err := uc.AddItem(ctx, &dto.AddItemInput{ProductID: tt.input.ProductID, Quantity: tt.prior})
				require.NoError(t, err)
			}

			v, err := uc.AddItem(ctx, &tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, v)
			} else {
				require.NoError(t, err)
				require.Len(t, v.Items, 1)
			}

			it, ok := c.ItemByProduct(tt.input.ProductID)
			if tt.wantQty == 0 {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, it.Quantity)
		})
	}
}

func TestAddItemPropagatesRepositoryError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewCartUseCase(cart.New(decimal.Zero, decimal.Zero), failingProducts{err: boom}, logger.NewNop())
	_, err := uc.AddItem(context.Background(), &dto.AddItemInput{ProductID: "x", Quantity: 1})
	assert.ErrorIs(t, err, boom)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	uc, c, products := setup(t)

	v, err := uc.AddItem(ctx, &dto.AddItemInput{ProductID: "filter", Quantity: 1})
	require.NoError(t, err)
	itemID := v.Items[0].ID

	_, err = uc.UpdateQuantity(ctx, &dto.UpdateQuantityInput{ItemID: itemID, Quantity: 4})
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)

	v, err = uc.UpdateQuantity(ctx, &dto.UpdateQuantityInput{ItemID: itemID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Items[0].Quantity)
	assert.Equal(t, int64(135000), v.Subtotal)

	_, err = uc.UpdateQuantity(ctx, &dto.UpdateQuantityInput{ItemID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrItemNotFound)

	// product removed from the catalog after it was carted
	delete(products, "filter")
	v, err = uc.UpdateQuantity(ctx, &dto.UpdateQuantityInput{ItemID: itemID, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, v.Items[0].Quantity)

	v, err = uc.UpdateQuantity(ctx, &dto.UpdateQuantityInput{ItemID: itemID, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.Equal(t, 0, c.Len())
}

func TestRemoveItemAndClear(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := setup(t)

	v, err := uc.AddItem(ctx, &dto.AddItemInput{ProductID: "service", Quantity: 1})
	require.NoError(t, err)

	_, err = uc.RemoveItem(ctx, "missing")
	assert.ErrorIs(t, err, cart.ErrItemNotFound)

	v, err = uc.RemoveItem(ctx, v.Items[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)

	_, err = uc.AddItem(ctx, &dto.AddItemInput{ProductID: "service", Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, uc.ClearCart(ctx).Items)
}

func TestSetRates(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := setup(t)
	_, err := uc.AddItem(ctx, &dto.AddItemInput{ProductID: "service", Quantity: 1})
	require.NoError(t, err)

	five := decimal.NewFromInt(5)
	v, err := uc.SetRates(ctx, &dto.SetRatesInput{DiscountRate: &five})
	require.NoError(t, err)
	assert.True(t, v.TaxRate.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(25000), v.TaxAmount)
	assert.Equal(t, int64(12500), v.DiscountAmount)
	assert.Equal(t, int64(262500), v.Total)

	for _, bad := range []decimal.Decimal{decimal.NewFromInt(-1), decimal.NewFromInt(101)} {
		bad := bad
		_, err = uc.SetRates(ctx, &dto.SetRatesInput{TaxRate: &bad, DiscountRate: &five})
		assert.ErrorIs(t, err, cart.ErrInvalidRate)
	}
	assert.True(t, uc.GetCart(ctx).TaxRate.Equal(decimal.NewFromInt(10)))
}
