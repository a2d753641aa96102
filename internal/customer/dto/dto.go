package dto

import (
	"strings"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type CustomerFilters struct {
	SearchQuery string // name or phone
	Page        int
	PageSize    int
}

// Match reports a case-insensitive name match or a phone substring match.
func (f *CustomerFilters) Match(c *model.Customer) bool {
	if f.SearchQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.SearchQuery)) ||
		strings.Contains(c.Phone, f.SearchQuery)
}

type CustomerList struct {
	Customers []model.Customer `json:"customers"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"pageSize"`
}
