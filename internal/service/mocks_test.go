package service

import (
	"context"
	"sync"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
	"github.com/Jiommy31313/jimmyyy/internal/repository"
)

// MockRepository implements repository.RepoInterface for testing
type MockRepository struct {
	m        sync.Mutex
	Products map[string]*domain.Product
	Sales    []*domain.SaleRecord
	Outbox   []*repository.OutboxEvent

	GetErr    error
	CreateErr error
	RecordErr error
}

func NewMockRepository(products ...*domain.Product) *MockRepository {
	m := &MockRepository{Products: make(map[string]*domain.Product)}
	for _, p := range products {
		cp := *p
		m.Products[p.ID] = &cp
	}
	return m
}

func (m *MockRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.Products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockRepository) ListProducts(context.Context) ([]*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	products := make([]*domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		cp := *p
		products = append(products, &cp)
	}
	return products, nil
}

func (m *MockRepository) CreateProduct(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, exists := m.Products[p.ID]; exists {
		return repository.ErrDuplicateProduct
	}
	cp := *p
	m.Products[p.ID] = &cp
	return nil
}

func (m *MockRepository) AddStock(_ context.Context, id string, qty int) (int, error) {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	p.Stock += qty
	return p.Stock, nil
}

func (m *MockRepository) ListSales(context.Context) ([]*domain.SaleRecord, error) {
	m.m.Lock()
	defer m.m.Unlock()
	sales := make([]*domain.SaleRecord, len(m.Sales))
	copy(sales, m.Sales)
	return sales, nil
}

func (m *MockRepository) RecordSale(_ context.Context, sale *domain.SaleRecord) (int, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.RecordErr != nil {
		return 0, m.RecordErr
	}
	p, ok := m.Products[sale.ProductID]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	if p.Stock < sale.Quantity {
		return 0, repository.ErrInsufficientStock
	}
	p.Stock -= sale.Quantity
	m.Sales = append(m.Sales, sale)
	m.Outbox = append(m.Outbox, &repository.OutboxEvent{
		ID:          len(m.Outbox) + 1,
		AggregateID: sale.ID.String(),
		EventType:   "sale.recorded",
	})
	return p.Stock, nil
}

func (m *MockRepository) GetUnprocessedEvents(context.Context, int) ([]*repository.OutboxEvent, error) {
	m.m.Lock()
	defer m.m.Unlock()
	events := make([]*repository.OutboxEvent, len(m.Outbox))
	copy(events, m.Outbox)
	return events, nil
}

func (m *MockRepository) MarkEventAsProcessed(_ context.Context, id int) error {
	return nil
}

func (m *MockRepository) Close() error {
	return nil
}

func (m *MockRepository) RunMigrations(*repository.Credentials) error {
	return nil
}
