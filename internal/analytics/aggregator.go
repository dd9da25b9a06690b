package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

// LowStockThreshold marks products that are about to run out.
const LowStockThreshold = 5

// JoinIncompleteError reports sales whose product id has no catalog match.
// Such rows are excluded from the profit sum but never silently dropped.
type JoinIncompleteError struct {
	ProductIDs []string
}

func (e *JoinIncompleteError) Error() string {
	return fmt.Sprintf("profit join incomplete: no catalog match for product ids %v", e.ProductIDs)
}

// ProfitLine is one ledger record joined to its product.
type ProfitLine struct {
	Sale     domain.SaleRecord `json:"sale"`
	Quantity decimal.Decimal   `json:"quantity"`
	CostOf   decimal.Decimal   `json:"cost_total"`
	Profit   decimal.Decimal   `json:"profit"`
}

// ProfitReport is the per-record and total profit for a set of sales.
type ProfitReport struct {
	Lines       []ProfitLine    `json:"lines"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// DailySales sums the totals of all records whose date component matches.
// Pure over its inputs: the same ledger snapshot always yields the same sum.
func DailySales(sales []*domain.SaleRecord, date time.Time) decimal.Decimal {
	y, m, d := date.UTC().Date()
	sum := decimal.Zero
	for _, s := range sales {
		sy, sm, sd := s.CreatedAt.UTC().Date()
		if sy == y && sm == m && sd == d {
			sum = sum.Add(s.Total)
		}
	}
	return sum
}

// MonthlySales sums the totals of all records in the given month.
func MonthlySales(sales []*domain.SaleRecord, year int, month time.Month) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range salesInMonth(sales, year, month) {
		sum = sum.Add(s.Total)
	}
	return sum
}

// MonthlyTransactionCount counts records in the given month. This counts
// transactions, not unique customers; no customer identity exists.
func MonthlyTransactionCount(sales []*domain.SaleRecord, year int, month time.Month) int {
	return len(salesInMonth(sales, year, month))
}

func salesInMonth(sales []*domain.SaleRecord, year int, month time.Month) []*domain.SaleRecord {
	var out []*domain.SaleRecord
	for _, s := range sales {
		sy, sm, _ := s.CreatedAt.UTC().Date()
		if sy == year && sm == month {
			out = append(out, s)
		}
	}
	return out
}

// Profit joins each sale to its product by id and computes per-record and
// total profit. The stored quantity is used when present; rows predating the
// quantity column fall back to estimating it as total / current price.
// Unmatched product ids come back as a *JoinIncompleteError alongside the
// report for the rows that did match.
func Profit(sales []*domain.SaleRecord, products []*domain.Product) (*ProfitReport, error) {
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	report := &ProfitReport{TotalProfit: decimal.Zero}
	var unmatched []string
	seen := make(map[string]bool)
	for _, s := range sales {
		product, ok := byID[s.ProductID]
		if !ok {
			if !seen[s.ProductID] {
				seen[s.ProductID] = true
				unmatched = append(unmatched, s.ProductID)
			}
			continue
		}

		qty := decimal.NewFromInt(int64(s.Quantity))
		if s.Quantity == 0 && !product.Price.IsZero() {
			qty = s.Total.DivRound(product.Price, 4)
		}
		costTotal := qty.Mul(product.Cost)
		profit := s.Total.Sub(costTotal)

		report.Lines = append(report.Lines, ProfitLine{
			Sale:     *s,
			Quantity: qty,
			CostOf:   costTotal,
			Profit:   profit,
		})
		report.TotalProfit = report.TotalProfit.Add(profit)
	}

	if len(unmatched) > 0 {
		return report, &JoinIncompleteError{ProductIDs: unmatched}
	}
	return report, nil
}

// SalesPerDay groups totals by date, ordered oldest first.
func SalesPerDay(sales []*domain.SaleRecord) []domain.DailyTotal {
	byDay := make(map[string]decimal.Decimal)
	for _, s := range sales {
		day := s.CreatedAt.UTC().Format("2006-01-02")
		if sum, ok := byDay[day]; ok {
			byDay[day] = sum.Add(s.Total)
		} else {
			byDay[day] = s.Total
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]domain.DailyTotal, 0, len(days))
	for _, day := range days {
		out = append(out, domain.DailyTotal{Date: day, Total: byDay[day]})
	}
	return out
}

// LowStock returns exactly the products with stock below the threshold.
func LowStock(products []*domain.Product, threshold int) []domain.Product {
	var out []domain.Product
	for _, p := range products {
		if p.Stock < threshold {
			out = append(out, *p)
		}
	}
	return out
}

// NewlyAdded returns the products added on or after the given time.
func NewlyAdded(products []*domain.Product, since time.Time) []domain.Product {
	var out []domain.Product
	for _, p := range products {
		if !p.DateAdded.Before(since) {
			out = append(out, *p)
		}
	}
	return out
}
