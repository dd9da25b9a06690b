package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product in a cart with its running subtotal.
// The unit price is the catalog price at the moment the line was added.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart lives only for the duration of a checkout session and is owned
// exclusively by that session. It is destroyed on successful checkout
// or explicit clear.
type Cart struct {
	SessionToken string     `json:"session_token"`
	Lines        []CartLine `json:"lines"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Total is the sum of all line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}
