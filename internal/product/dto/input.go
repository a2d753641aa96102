package dto

import "github.com/fekuna/omnipos-workshop-pos/internal/model"

type CreateProductInput struct {
	Name        string         `json:"name"`
	Category    model.Category `json:"category"`
	Price       int64          `json:"price"`
	Stock       int            `json:"stock"`
	Description string         `json:"description"`
}

type UpdateProductInput struct {
	ID          string         `json:"-"`
	Name        string         `json:"name"`
	Category    model.Category `json:"category"`
	Price       int64          `json:"price"`
	Stock       int            `json:"stock"`
	Description string         `json:"description"`
}
