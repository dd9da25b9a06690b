package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
	"github.com/Jiommy31313/jimmyyy/internal/repository"
)

// SaleProcessor turns a product id and quantity into a committed ledger entry.
type SaleProcessor interface {
	ProcessSale(ctx context.Context, productID string, qty int) (*domain.SaleRecord, int, error)
}

type SaleService struct {
	repo repository.RepoInterface
}

func NewSaleService(repo repository.RepoInterface) *SaleService {
	return &SaleService{repo: repo}
}

// ProcessSale validates availability, captures price and cost at the time of
// sale, and commits the ledger entry together with the stock decrement.
// Returns the ledger entry and the updated stock level.
//
// The availability check here is advisory only; the repository re-validates
// inside the transaction, so a concurrent sale draining the stock surfaces as
// ErrInsufficientStock rather than an oversell.
func (s *SaleService) ProcessSale(ctx context.Context, productID string, qty int) (*domain.SaleRecord, int, error) {
	if qty < 1 {
		return nil, 0, ErrInvalidQuantity
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	if product.Stock < qty {
		return nil, 0, repository.ErrInsufficientStock
	}

	sale := &domain.SaleRecord{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Cost:      product.Cost,
		Quantity:  qty,
		Total:     product.Price.Mul(decimal.NewFromInt(int64(qty))),
		CreatedAt: time.Now().UTC(),
	}

	newStock, err := s.repo.RecordSale(ctx, sale)
	if err != nil {
		return nil, 0, err
	}

	return sale, newStock, nil
}
