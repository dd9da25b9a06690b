package service

import (
	"context"
	"time"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
	"github.com/Jiommy31313/jimmyyy/internal/repository"
)

// StockService covers the stocking workflow: creating products and receiving
// stock for existing ones. Creation never silently merges into an existing
// id; a duplicate surfaces as repository.ErrDuplicateProduct.
type StockService struct {
	repo repository.RepoInterface
}

func NewStockService(repo repository.RepoInterface) *StockService {
	return &StockService{repo: repo}
}

func (s *StockService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" || p.Name == "" || p.Price.IsNegative() || p.Cost.IsNegative() {
		return ErrInvalidProduct
	}
	if p.Stock < 0 {
		return ErrInvalidQuantity
	}
	if p.DateAdded.IsZero() {
		p.DateAdded = time.Now().UTC()
	}
	return s.repo.CreateProduct(ctx, p)
}

// ReceiveStock increments an existing product's stock level and returns the
// new level.
func (s *StockService) ReceiveStock(ctx context.Context, productID string, qty int) (int, error) {
	if qty < 1 {
		return 0, ErrInvalidQuantity
	}
	return s.repo.AddStock(ctx, productID, qty)
}

func (s *StockService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *StockService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}
