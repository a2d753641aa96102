package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Transaction is an immutable sale record. Items hold a value copy of the
// cart at commit time.
type Transaction struct {
	ID           string    `db:"id" json:"id"`
	Date         time.Time `db:"date" json:"date"`
	CustomerID   *string   `db:"customer_id" json:"customerId,omitempty"`
	CustomerName *string   `db:"customer_name" json:"customerName,omitempty"`
	Items        LineItems `db:"items" json:"items"`
	Subtotal     int64     `db:"subtotal" json:"subtotal"`
	Discount     int64     `db:"discount" json:"discount"`
	Tax          int64     `db:"tax" json:"tax"`
	Total        int64     `db:"total" json:"total"`
}

// WalkIn reports a sale without a customer record.
func (t *Transaction) WalkIn() bool {
	return t.CustomerID == nil
}

// Balanced checks total == subtotal + tax - discount and that subtotal
// matches the item lines.
func (t *Transaction) Balanced() bool {
	var sum int64
	for _, it := range t.Items {
		sum += it.LineTotal()
	}
	return sum == t.Subtotal && t.Total == t.Subtotal+t.Tax-t.Discount
}

type LineItems []CartItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *LineItems) Scan(src interface{}) error {
	return scanJSON(src, l)
}
