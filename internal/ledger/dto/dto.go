package dto

import (
	"strings"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

// TransactionFilters select ledger entries. From is inclusive and To is
// exclusive; callers turn calendar days into those bounds.
type TransactionFilters struct {
	SearchQuery string // id substring or customer name
	CustomerID  string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

func (f *TransactionFilters) Match(t *model.Transaction) bool {
	if f.CustomerID != "" && (t.CustomerID == nil || *t.CustomerID != f.CustomerID) {
		return false
	}
	if f.From != nil && t.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !t.Date.Before(*f.To) {
		return false
	}
	if f.SearchQuery == "" {
		return true
	}
	q := strings.ToLower(f.SearchQuery)
	if strings.Contains(strings.ToLower(t.ID), q) {
		return true
	}
	return t.CustomerName != nil && strings.Contains(strings.ToLower(*t.CustomerName), q)
}

type TransactionList struct {
	Transactions []model.Transaction `json:"transactions"`
	Total        int                 `json:"total"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"pageSize"`
}

type DailyRevenue struct {
	Date    string `json:"date"` // MM-DD
	Revenue int64  `json:"revenue"`
}

// Summary feeds the dashboard.
type Summary struct {
	TodayRevenue       int64               `json:"todayRevenue"`
	MonthRevenue       int64               `json:"monthRevenue"`
	Last7Days          []DailyRevenue      `json:"last7Days"`
	ProductCount       int                 `json:"productCount"`
	CustomerCount      int                 `json:"customerCount"`
	RecentTransactions []model.Transaction `json:"recentTransactions"`
	LowStock           []model.Product     `json:"lowStock"`
}
