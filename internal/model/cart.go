package model

// CartItem is a pending sale line. Name and Price are captured when the
// product is added and never follow later catalog edits.
type CartItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
