package model

import "time"

const (
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
	MovementRestock    = "restock"
)

type InventoryMovement struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"productId"`
	MovementType   string    `db:"movement_type" json:"movementType"`
	QuantityChange int       `db:"quantity_change" json:"quantityChange"`
	QuantityBefore int       `db:"quantity_before" json:"quantityBefore"`
	QuantityAfter  int       `db:"quantity_after" json:"quantityAfter"`
	ReferenceType  *string   `db:"reference_type" json:"referenceType,omitempty"`
	ReferenceID    *string   `db:"reference_id" json:"referenceId,omitempty"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// StockChange is one product stock write plus the movement that explains it.
type StockChange struct {
	ProductID string
	NewStock  int
	Movement  InventoryMovement
}
