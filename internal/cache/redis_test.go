package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return c, mr, cleanup
}

func testSnapshot() *domain.DashboardSnapshot {
	return &domain.DashboardSnapshot{
		GeneratedAt:       time.Now().UTC().Truncate(time.Second),
		TodaySales:        decimal.RequireFromString("250.00"),
		MonthSales:        decimal.RequireFromString("1200.50"),
		MonthTransactions: 17,
		MonthProfit:       decimal.RequireFromString("380.25"),
		SalesPerDay: []domain.DailyTotal{
			{Date: "2026-08-30", Total: decimal.RequireFromString("950.50")},
			{Date: "2026-08-31", Total: decimal.RequireFromString("250.00")},
		},
	}
}

func TestSnapshotGet_Success(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	snapshot := testSnapshot()

	data, _ := json.Marshal(snapshot)
	mr.Set(snapshotKey, string(data))

	result, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, result.MonthTransactions)
	assert.True(t, snapshot.TodaySales.Equal(result.TodaySales))
	assert.Len(t, result.SalesPerDay, 2)
}

func TestSnapshotGet_CacheMiss(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := c.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestSnapshotGet_InvalidJSON(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(snapshotKey, "{not json")

	result, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSnapshotSet_ThenGet(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	snapshot := testSnapshot()

	require.NoError(t, c.Set(ctx, snapshot))
	assert.True(t, mr.Exists(snapshotKey))

	result, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, snapshot.MonthProfit.Equal(result.MonthProfit))
}

func TestSnapshotSet_HasTTL(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, c.Set(context.Background(), testSnapshot()))

	ttl := mr.TTL(snapshotKey)
	assert.GreaterOrEqual(t, ttl, 5*time.Minute)
}

func TestSnapshotDelete(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, testSnapshot()))
	require.NoError(t, c.Delete(ctx))

	assert.False(t, mr.Exists(snapshotKey))
}
