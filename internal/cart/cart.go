package cart

import (
	"sync"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals are derived from the cart lines and rates at read time.
type Totals struct {
	Subtotal       int64 `json:"subtotal"`
	TaxAmount      int64 `json:"taxAmount"`
	DiscountAmount int64 `json:"discountAmount"`
	Total          int64 `json:"total"`
}

// Snapshot is a value copy of the cart taken under one lock.
type Snapshot struct {
	Items        []model.CartItem
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal
	Totals       Totals
}

// Cart is the session cart. It holds at most one line per product and never
// keeps a line with quantity below one. It does not look at stock.
type Cart struct {
	mu           sync.RWMutex
	items        []model.CartItem
	taxRate      decimal.Decimal
	discountRate decimal.Decimal
	newID        func() string
}

func New(taxRate, discountRate decimal.Decimal) *Cart {
	return &Cart{
		taxRate:      taxRate,
		discountRate: discountRate,
		newID:        uuid.NewString,
	}
}

// AddItem merges into the existing line for p.ID or appends a new line that
// snapshots p's name and price.
func (c *Cart) AddItem(p model.Product, qty int) (model.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexByProduct(p.ID); i >= 0 {
		return c.setQuantityAt(i, c.items[i].Quantity+qty)
	}
	if qty <= 0 {
		return model.CartItem{}, false
	}
	item := model.CartItem{
		ID:        c.newID(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	}
	c.items = append(c.items, item)
	return item, true
}

// SetQuantity overwrites the quantity of itemID, removing the line when
// qty <= 0. Unknown ids are ignored.
func (c *Cart) SetQuantity(itemID string, qty int) (model.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexByID(itemID)
	if i < 0 {
		return model.CartItem{}, false
	}
	return c.setQuantityAt(i, qty)
}

func (c *Cart) setQuantityAt(i, qty int) (model.CartItem, bool) {
	if qty <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return model.CartItem{}, false
	}
	c.items[i].Quantity = qty
	return c.items[i], true
}

func (c *Cart) RemoveItem(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexByID(itemID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

func (c *Cart) Items() []model.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyItems()
}

func (c *Cart) Item(itemID string) (model.CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexByID(itemID); i >= 0 {
		return c.items[i], true
	}
	return model.CartItem{}, false
}

func (c *Cart) ItemByProduct(productID string) (model.CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexByProduct(productID); i >= 0 {
		return c.items[i], true
	}
	return model.CartItem{}, false
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cart) SetTaxRate(pct decimal.Decimal) {
	c.mu.Lock()
	c.taxRate = pct
	c.mu.Unlock()
}

func (c *Cart) SetDiscountRate(pct decimal.Decimal) {
	c.mu.Lock()
	c.discountRate = pct
	c.mu.Unlock()
}

func (c *Cart) TaxRate() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.taxRate
}

func (c *Cart) DiscountRate() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.discountRate
}

func (c *Cart) Subtotal() int64 {
	return c.Totals().Subtotal
}

func (c *Cart) TaxAmount() int64 {
	return c.Totals().TaxAmount
}

func (c *Cart) DiscountAmount() int64 {
	return c.Totals().DiscountAmount
}

func (c *Cart) Total() int64 {
	return c.Totals().Total
}

func (c *Cart) Totals() Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totals()
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot()
}

// Drain hands a snapshot to fn while holding the cart exclusively and
// empties the cart if fn succeeds. No cart edit can slip in between the
// snapshot and the clear.
func (c *Cart) Drain(fn func(Snapshot) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(c.snapshot()); err != nil {
		return err
	}
	c.items = nil
	return nil
}

func (c *Cart) snapshot() Snapshot {
	return Snapshot{
		Items:        c.copyItems(),
		TaxRate:      c.taxRate,
		DiscountRate: c.discountRate,
		Totals:       c.totals(),
	}
}

func (c *Cart) totals() Totals {
	var subtotal int64
	for _, it := range c.items {
		subtotal += it.LineTotal()
	}
	tax := PercentOf(subtotal, c.taxRate)
	discount := PercentOf(subtotal, c.discountRate)
	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Total:          subtotal + tax - discount,
	}
}

func (c *Cart) copyItems() []model.CartItem {
	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) indexByID(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) indexByProduct(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// PercentOf returns amount*pct/100 rounded half away from zero to whole rupiah.
func PercentOf(amount int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(pct).Div(hundred).Round(0).IntPart()
}
