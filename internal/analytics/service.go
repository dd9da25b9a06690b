package analytics

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Jiommy31313/jimmyyy/internal/cache"
	"github.com/Jiommy31313/jimmyyy/internal/domain"
	"github.com/Jiommy31313/jimmyyy/internal/repository"
)

type Service struct {
	repo  repository.RepoInterface
	cache cache.DashboardCache
	sfg   singleflight.Group // Prevents cache stampede
	now   func() time.Time
}

func NewService(repo repository.RepoInterface, c cache.DashboardCache) *Service {
	return &Service{
		repo:  repo,
		cache: c,
		now:   time.Now,
	}
}

// GetDashboard serves the cached snapshot, computing a fresh one on miss.
// Concurrent misses collapse into a single computation.
func (s *Service) GetDashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	v, err, _ := s.sfg.Do("dashboard", func() (interface{}, error) {
		snapshot, err := s.cache.Get(ctx)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("dashboard cache get error: %v", err) // log cache error but continue
		}

		snapshot, errBuild := s.buildSnapshot(ctx)
		if errBuild != nil {
			return nil, errBuild
		}

		go func() {
			errSet := s.cache.Set(context.Background(), snapshot)
			if errSet != nil {
				log.Printf("dashboard cache set error: %v", errSet)
			}
		}()

		return snapshot, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.DashboardSnapshot), nil
}

// Refresh recomputes the snapshot and writes it through to the cache.
// The background refresher calls this on its tick.
func (s *Service) Refresh(ctx context.Context) error {
	snapshot, err := s.buildSnapshot(ctx)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, snapshot)
}

// LowStockProducts lists products below the default threshold.
func (s *Service) LowStockProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return LowStock(products, LowStockThreshold), nil
}

// NewProducts lists products added since the start of the current month.
func (s *Service) NewProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return NewlyAdded(products, startOfMonth(s.now().UTC())), nil
}

func (s *Service) buildSnapshot(ctx context.Context) (*domain.DashboardSnapshot, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	year, month, _ := now.Date()

	snapshot := &domain.DashboardSnapshot{
		GeneratedAt:       now,
		TodaySales:        DailySales(sales, now),
		MonthSales:        MonthlySales(sales, year, month),
		MonthTransactions: MonthlyTransactionCount(sales, year, month),
		SalesPerDay:       SalesPerDay(sales),
		LowStock:          LowStock(products, LowStockThreshold),
		NewProducts:       NewlyAdded(products, startOfMonth(now)),
	}

	report, err := Profit(salesInMonth(sales, year, month), products)
	var joinErr *JoinIncompleteError
	if errors.As(err, &joinErr) {
		// Unmatched rows are surfaced on the snapshot, not swallowed.
		snapshot.UnmatchedProductIDs = joinErr.ProductIDs
	} else if err != nil {
		return nil, err
	}
	snapshot.MonthProfit = report.TotalProfit

	return snapshot, nil
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
