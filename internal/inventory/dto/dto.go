package dto

import (
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type MovementFilters struct {
	ProductID    string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

func (f *MovementFilters) Match(m *model.InventoryMovement) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.MovementType != "" && m.MovementType != f.MovementType {
		return false
	}
	if f.StartDate != nil && m.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && !m.CreatedAt.Before(*f.EndDate) {
		return false
	}
	return true
}

type MovementList struct {
	Movements []model.InventoryMovement `json:"movements"`
	Total     int                       `json:"total"`
	Page      int                       `json:"page"`
	PageSize  int                       `json:"pageSize"`
}
