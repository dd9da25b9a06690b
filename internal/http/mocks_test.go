package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jiommy31313/jimmyyy/internal/cache"
	"github.com/Jiommy31313/jimmyyy/internal/domain"
	"github.com/Jiommy31313/jimmyyy/internal/repository"
)

// mockRepo implements repository.RepoInterface over maps.
type mockRepo struct {
	m        sync.Mutex
	products map[string]*domain.Product
	sales    []*domain.SaleRecord
	err      error
}

func newMockRepo(products ...*domain.Product) *mockRepo {
	m := &mockRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		cp := *p
		m.products[p.ID] = &cp
	}
	return m
}

func (m *mockRepo) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ListProducts(context.Context) ([]*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) CreateProduct(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, exists := m.products[p.ID]; exists {
		return repository.ErrDuplicateProduct
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockRepo) AddStock(_ context.Context, id string, qty int) (int, error) {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.products[id]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	p.Stock += qty
	return p.Stock, nil
}

func (m *mockRepo) ListSales(context.Context) ([]*domain.SaleRecord, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sales, nil
}

func (m *mockRepo) RecordSale(_ context.Context, sale *domain.SaleRecord) (int, error) {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.products[sale.ProductID]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	if p.Stock < sale.Quantity {
		return 0, repository.ErrInsufficientStock
	}
	p.Stock -= sale.Quantity
	m.sales = append(m.sales, sale)
	return p.Stock, nil
}

func (m *mockRepo) GetUnprocessedEvents(context.Context, int) ([]*repository.OutboxEvent, error) {
	return nil, nil
}
func (m *mockRepo) MarkEventAsProcessed(context.Context, int) error { return nil }
func (m *mockRepo) Close() error                                    { return nil }
func (m *mockRepo) RunMigrations(*repository.Credentials) error     { return nil }

type mockSessionStore struct {
	m        sync.RWMutex
	sessions map[string]*domain.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	return session, nil
}

func (m *mockSessionStore) Set(_ context.Context, session *domain.Session) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.sessions[session.Token] = session
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.sessions, token)
	return nil
}

func testSession(role domain.Role) *domain.Session {
	return &domain.Session{
		Token:     "tok-" + string(role),
		Email:     string(role) + "@shop.local",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

// withSession puts a session on the request context the way AuthMiddleware does.
func withSession(req *http.Request, session *domain.Session) *http.Request {
	ctx := context.WithValue(req.Context(), sessionContextKey, session)
	return req.WithContext(ctx)
}

func catalogProduct(id string, stock int) *domain.Product {
	return &domain.Product{
		ID:        id,
		Name:      "Product " + id,
		Price:     decimal.RequireFromString("25.00"),
		Cost:      decimal.RequireFromString("17.50"),
		Stock:     stock,
		DateAdded: time.Now().UTC(),
	}
}
