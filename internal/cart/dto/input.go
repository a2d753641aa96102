package dto

import "github.com/shopspring/decimal"

type AddItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityInput struct {
	ItemID   string `json:"-"`
	Quantity int    `json:"quantity"`
}

// SetRatesInput changes only the rates that are present.
type SetRatesInput struct {
	TaxRate      *decimal.Decimal `json:"taxRate"`
	DiscountRate *decimal.Decimal `json:"discountRate"`
}
