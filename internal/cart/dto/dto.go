package dto

import (
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/shopspring/decimal"
)

type CartView struct {
	Items          []model.CartItem `json:"items"`
	TaxRate        decimal.Decimal  `json:"taxRate"`
	DiscountRate   decimal.Decimal  `json:"discountRate"`
	Subtotal       int64            `json:"subtotal"`
	TaxAmount      int64            `json:"taxAmount"`
	DiscountAmount int64            `json:"discountAmount"`
	Total          int64            `json:"total"`
}
