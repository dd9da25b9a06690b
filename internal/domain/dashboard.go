package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyTotal is one bar of the sales-per-day series.
type DailyTotal struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

// DashboardSnapshot holds everything the owner dashboard shows. It is computed
// from a single pair of catalog/ledger snapshots, so identical ledger state
// always yields an identical snapshot.
type DashboardSnapshot struct {
	GeneratedAt         time.Time       `json:"generated_at"`
	TodaySales          decimal.Decimal `json:"today_sales"`
	MonthSales          decimal.Decimal `json:"month_sales"`
	MonthTransactions   int             `json:"month_transactions"`
	MonthProfit         decimal.Decimal `json:"month_profit"`
	UnmatchedProductIDs []string        `json:"unmatched_product_ids,omitempty"`
	SalesPerDay         []DailyTotal    `json:"sales_per_day"`
	LowStock            []Product       `json:"low_stock"`
	NewProducts         []Product       `json:"new_products"`
}
