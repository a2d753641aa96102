package dto

import (
	"sort"
	"strings"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type ProductFilters struct {
	Category    model.Category `json:"category,omitempty"`
	SearchQuery string         `json:"q,omitempty"` // name or description
	SortBy      string         `json:"sortBy,omitempty"` // name, price, stock
	SortOrder   string         `json:"sortOrder,omitempty"` // asc, desc
	Page        int            `json:"page,omitempty"`
	PageSize    int            `json:"pageSize,omitempty"`
}

// Match applies the category and search filters to p.
func (f *ProductFilters) Match(p *model.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.SearchQuery == "" {
		return true
	}
	q := strings.ToLower(f.SearchQuery)
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), q)
}

// Sort orders products in place. Without SortBy the input order is kept.
func (f *ProductFilters) Sort(products []model.Product) {
	var less func(a, b *model.Product) bool
	switch f.SortBy {
	case "name":
		less = func(a, b *model.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "price":
		less = func(a, b *model.Product) bool { return a.Price < b.Price }
	case "stock":
		less = func(a, b *model.Product) bool { return a.Stock < b.Stock }
	default:
		return
	}
	desc := strings.EqualFold(f.SortOrder, "desc")
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(&products[j], &products[i])
		}
		return less(&products[i], &products[j])
	})
}

type ProductList struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}
