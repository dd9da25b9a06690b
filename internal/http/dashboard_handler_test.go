package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jiommy31313/jimmyyy/internal/analytics"
	"github.com/Jiommy31313/jimmyyy/internal/cache"
	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

type mockDashboardCache struct {
	snapshot *domain.DashboardSnapshot
}

func (m *mockDashboardCache) Get(context.Context) (*domain.DashboardSnapshot, error) {
	if m.snapshot == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.snapshot, nil
}

func (m *mockDashboardCache) Set(_ context.Context, snapshot *domain.DashboardSnapshot) error {
	m.snapshot = snapshot
	return nil
}

func (m *mockDashboardCache) Delete(context.Context) error {
	m.snapshot = nil
	return nil
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	repo := newMockRepo(catalogProduct("P-001", 2))
	repo.sales = []*domain.SaleRecord{
		{
			ProductID: "P-001",
			Name:      "Product P-001",
			Price:     decimal.RequireFromString("25.00"),
			Cost:      decimal.RequireFromString("17.50"),
			Quantity:  2,
			Total:     decimal.RequireFromString("50.00"),
			CreatedAt: time.Now().UTC(),
		},
	}
	handler := NewDashboardHandler(analytics.NewService(repo, &mockDashboardCache{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	recorder := httptest.NewRecorder()

	handler.GetDashboard(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var snapshot domain.DashboardSnapshot
	if err := json.NewDecoder(recorder.Body).Decode(&snapshot); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got := snapshot.TodaySales.String(); got != "50" {
		t.Errorf("expected today's sales 50, got %s", got)
	}
	if snapshot.MonthTransactions != 1 {
		t.Errorf("expected 1 transaction this month, got %d", snapshot.MonthTransactions)
	}
}

func TestDashboardHandler_GetDashboard_StoreDown(t *testing.T) {
	repo := newMockRepo()
	repo.err = context.DeadlineExceeded
	handler := NewDashboardHandler(analytics.NewService(repo, &mockDashboardCache{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	recorder := httptest.NewRecorder()

	handler.GetDashboard(recorder, req)

	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", recorder.Code)
	}
}

func TestDashboardHandler_LowStock(t *testing.T) {
	repo := newMockRepo(catalogProduct("P-001", 2), catalogProduct("P-002", 50))
	handler := NewDashboardHandler(analytics.NewService(repo, &mockDashboardCache{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/low-stock", nil)
	recorder := httptest.NewRecorder()

	handler.LowStock(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var products []*domain.Product
	if err := json.NewDecoder(recorder.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 low stock product, got %d", len(products))
	}
	if products[0].ID != "P-001" {
		t.Errorf("expected P-001, got %s", products[0].ID)
	}
}

func TestDashboardHandler_NewProducts(t *testing.T) {
	fresh := catalogProduct("P-001", 10)
	old := catalogProduct("P-002", 10)
	old.DateAdded = time.Now().UTC().AddDate(0, -2, 0)
	repo := newMockRepo(fresh, old)
	handler := NewDashboardHandler(analytics.NewService(repo, &mockDashboardCache{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/new-products", nil)
	recorder := httptest.NewRecorder()

	handler.NewProducts(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var products []*domain.Product
	if err := json.NewDecoder(recorder.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 new product, got %d", len(products))
	}
	if products[0].ID != "P-001" {
		t.Errorf("expected P-001, got %s", products[0].ID)
	}
}
