// Package store holds what both storage drivers share: the persisted
// document layout and the default data a new shop starts with.
package store

import (
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

// Data is the persisted layout. Transactions are kept newest first.
type Data struct {
	Products     []model.Product           `json:"products"`
	Customers    []model.Customer          `json:"customers"`
	Transactions []model.Transaction       `json:"transactions"`
	Movements    []model.InventoryMovement `json:"movements,omitempty"`
}

func strPtr(s string) *string { return &s }

func base(id string, at time.Time) model.BaseModel {
	return model.BaseModel{ID: id, CreatedAt: at, UpdatedAt: at}
}

// Seed returns the catalog, roster and ledger of a freshly installed shop.
func Seed() Data {
	at := time.Date(2023, 12, 1, 8, 0, 0, 0, time.UTC)

	return Data{
		Products: []model.Product{
			{BaseModel: base("1", at), Name: "Oil Filter", Category: model.CategorySparePart, Price: 45000, Stock: 20,
				Description: strPtr("High quality oil filter for most Japanese vehicles")},
			{BaseModel: base("2", at), Name: "Engine Oil (1L)", Category: model.CategoryOil, Price: 85000, Stock: 15,
				Description: strPtr("10W-40 synthetic engine oil, 1 liter")},
			{BaseModel: base("3", at), Name: "Basic Service", Category: model.CategoryRepair, Price: 250000, Stock: 999,
				Description: strPtr("Basic service including oil change and inspection")},
			{BaseModel: base("4", at), Name: "Brake Pad Set", Category: model.CategorySparePart, Price: 375000, Stock: 8,
				Description: strPtr("Front brake pad set for most sedan models")},
			{BaseModel: base("5", at), Name: "Air Filter", Category: model.CategorySparePart, Price: 65000, Stock: 12,
				Description: strPtr("Standard air filter for most vehicles")},
		},
		Customers: []model.Customer{
			{BaseModel: base("1", at), Name: "Budi Santoso", Phone: "081234567890",
				Vehicles: model.Vehicles{{ID: "1", Make: "Toyota", Model: "Avanza", Year: 2018, LicensePlate: "B 1234 CD"}}},
			{BaseModel: base("2", at), Name: "Dewi Kusuma", Phone: "087654321098",
				Vehicles: model.Vehicles{{ID: "1", Make: "Honda", Model: "Jazz", Year: 2020, LicensePlate: "B 5678 EF"}}},
		},
		Transactions: []model.Transaction{
			{
				ID:           "1",
				Date:         time.Date(2023, 12, 1, 10, 30, 0, 0, time.UTC),
				CustomerID:   strPtr("1"),
				CustomerName: strPtr("Budi Santoso"),
				Items: model.LineItems{
					{ID: "1", ProductID: "2", Name: "Engine Oil (1L)", Price: 85000, Quantity: 4},
					{ID: "2", ProductID: "1", Name: "Oil Filter", Price: 45000, Quantity: 1},
				},
				Subtotal: 385000,
				Discount: 0,
				Tax:      38500,
				Total:    423500,
			},
		},
	}
}

// Page slices items for a 1-based page. A non-positive size returns all.
func Page[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
