package usecase

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/cart/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var maxRate = decimal.NewFromInt(100)

type cartUseCase struct {
	cart     *cart.Cart
	products cart.ProductReader
	logger   logger.ZapLogger
}

// NewCartUseCase wraps c with the stock checks the Cart itself leaves to its
// caller.
func NewCartUseCase(c *cart.Cart, products cart.ProductReader, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		cart:     c,
		products: products,
		logger:   log,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context) *dto.CartView {
	return view(uc.cart.Snapshot())
}

func (uc *cartUseCase) AddItem(ctx context.Context, input *dto.AddItemInput) (*dto.CartView, error) {
	if input.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, cart.ErrProductNotFound
	}

	if !p.Unlimited() {
		if p.Stock <= 0 {
			return nil, cart.ErrOutOfStock
		}
		inCart := 0
		if existing, ok := uc.cart.ItemByProduct(p.ID); ok {
			inCart = existing.Quantity
		}
		if inCart+input.Quantity > p.Stock {
			return nil, cart.ErrInsufficientStock
		}
	}

	item, _ := uc.cart.AddItem(*p, input.Quantity)
	uc.logger.Debug("cart item added",
		zap.String("product_id", p.ID),
		zap.String("item_id", item.ID),
		zap.Int("quantity", item.Quantity),
	)
	return view(uc.cart.Snapshot()), nil
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*dto.CartView, error) {
	item, ok := uc.cart.Item(input.ItemID)
	if !ok {
		return nil, cart.ErrItemNotFound
	}

	if input.Quantity > 0 {
		p, err := uc.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		// a product deleted after it was carted keeps its snapshot and has no limit
		if p != nil && !p.Unlimited() && input.Quantity > p.Stock {
			return nil, cart.ErrInsufficientStock
		}
	}

	uc.cart.SetQuantity(input.ItemID, input.Quantity)
	return view(uc.cart.Snapshot()), nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, itemID string) (*dto.CartView, error) {
	if !uc.cart.RemoveItem(itemID) {
		return nil, cart.ErrItemNotFound
	}
	return view(uc.cart.Snapshot()), nil
}

func (uc *cartUseCase) ClearCart(ctx context.Context) *dto.CartView {
	uc.cart.Clear()
	return view(uc.cart.Snapshot())
}

func (uc *cartUseCase) SetRates(ctx context.Context, input *dto.SetRatesInput) (*dto.CartView, error) {
	if input.TaxRate != nil && !validRate(*input.TaxRate) {
		return nil, cart.ErrInvalidRate
	}
	if input.DiscountRate != nil && !validRate(*input.DiscountRate) {
		return nil, cart.ErrInvalidRate
	}

	if input.TaxRate != nil {
		uc.cart.SetTaxRate(*input.TaxRate)
	}
	if input.DiscountRate != nil {
		uc.cart.SetDiscountRate(*input.DiscountRate)
	}
	return view(uc.cart.Snapshot()), nil
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(maxRate)
}

func view(s cart.Snapshot) *dto.CartView {
	items := s.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return &dto.CartView{
		Items:          items,
		TaxRate:        s.TaxRate,
		DiscountRate:   s.DiscountRate,
		Subtotal:       s.Totals.Subtotal,
		TaxAmount:      s.Totals.TaxAmount,
		DiscountAmount: s.Totals.DiscountAmount,
		Total:          s.Totals.Total,
	}
}
