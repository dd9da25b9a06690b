package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one row of the catalog. Products are never deleted;
// the stocking workflow only creates them or moves their stock level.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Stock     int             `json:"stock"`
	DateAdded time.Time       `json:"date_added"`
}
