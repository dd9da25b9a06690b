package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

// FailedLine reports one cart line that could not be processed at checkout.
// The line stays in the cart so nothing is silently lost.
type FailedLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// CheckoutResult lists what was charged and what was left behind.
type CheckoutResult struct {
	Receipts []domain.SaleRecord `json:"receipts"`
	Failed   []FailedLine        `json:"failed,omitempty"`
	Charged  decimal.Decimal     `json:"charged"`
	Change   decimal.Decimal     `json:"change"`
}

// CartService keeps one cart per session in memory. Carts are not persisted;
// they die with the session or on checkout.
type CartService struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
	sales SaleProcessor
}

func NewCartService(sales SaleProcessor) *CartService {
	return &CartService{
		carts: make(map[string]*domain.Cart),
		sales: sales,
	}
}

// Get returns a copy of the session's cart, creating an empty one if needed.
func (s *CartService) Get(sessionToken string) *domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[sessionToken]
	if !ok {
		return &domain.Cart{SessionToken: sessionToken}
	}
	return copyCart(cart)
}

// Add puts a product into the session's cart. Adding a product that is
// already in the cart increments the line's quantity.
func (s *CartService) Add(sessionToken string, product *domain.Product, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cart, ok := s.carts[sessionToken]
	if !ok {
		cart = &domain.Cart{SessionToken: sessionToken, CreatedAt: now}
		s.carts[sessionToken] = cart
	}

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == product.ID {
			cart.Lines[i].Quantity += qty
			cart.Lines[i].LineTotal = cart.Lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(cart.Lines[i].Quantity)))
			cart.UpdatedAt = now
			return copyCart(cart), nil
		}
	}

	cart.Lines = append(cart.Lines, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  qty,
		LineTotal: product.Price.Mul(decimal.NewFromInt(int64(qty))),
	})
	cart.UpdatedAt = now
	return copyCart(cart), nil
}

func (s *CartService) Clear(sessionToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionToken)
}

// Checkout processes every cart line as its own sale, re-validating stock per
// line since the cart may be stale relative to the catalog. Lines that fail
// stay in the cart and are reported; the change is computed against what was
// actually charged.
func (s *CartService) Checkout(ctx context.Context, sessionToken string, cashReceived decimal.Decimal) (*CheckoutResult, error) {
	s.mu.Lock()
	cart, ok := s.carts[sessionToken]
	if !ok || len(cart.Lines) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	lines := make([]domain.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	s.mu.Unlock()

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}
	if cashReceived.LessThan(total) {
		return nil, ErrInsufficientCash
	}

	result := &CheckoutResult{Charged: decimal.Zero}
	var remaining []domain.CartLine
	for _, line := range lines {
		sale, _, err := s.sales.ProcessSale(ctx, line.ProductID, line.Quantity)
		if err != nil {
			result.Failed = append(result.Failed, FailedLine{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    err.Error(),
			})
			remaining = append(remaining, line)
			continue
		}
		result.Receipts = append(result.Receipts, *sale)
		result.Charged = result.Charged.Add(sale.Total)
	}
	result.Change = cashReceived.Sub(result.Charged)

	s.mu.Lock()
	if len(remaining) == 0 {
		delete(s.carts, sessionToken)
	} else {
		cart.Lines = remaining
		cart.UpdatedAt = time.Now().UTC()
	}
	s.mu.Unlock()

	return result, nil
}

func copyCart(cart *domain.Cart) *domain.Cart {
	cp := *cart
	cp.Lines = make([]domain.CartLine, len(cart.Lines))
	copy(cp.Lines, cart.Lines)
	return &cp
}
