package dto

type AdjustStockInput struct {
	ProductID      string `json:"-"`
	QuantityChange int    `json:"quantityChange"`
	MovementType   string `json:"movementType"` // adjustment (default) or restock
	Reason         string `json:"reason"`
	ReferenceID    string `json:"referenceId"`
}
