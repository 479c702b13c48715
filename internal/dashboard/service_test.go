package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printflowhq/printflow-backend/pkg/db/models"
	"github.com/printflowhq/printflow-backend/pkg/enums"
	pkgredis "github.com/printflowhq/printflow-backend/pkg/redis"
)

type stubDashboardRepo struct {
	aggregates     []StatusAggregate
	recent         []models.Order
	aggregateCalls int
}

func (s *stubDashboardRepo) AggregateByStatus(ctx context.Context) ([]StatusAggregate, error) {
	s.aggregateCalls++
	return s.aggregates, nil
}

func (s *stubDashboardRepo) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

type stubBirthdays struct {
	clients []models.Client
	month   time.Month
}

func (s *stubBirthdays) ListByBirthMonth(ctx context.Context, month time.Month) ([]models.Client, error) {
	s.month = month
	return s.clients, nil
}

type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	val, ok := m.values[key]
	if !ok {
		return "", pkgredis.ErrNotFound
	}
	return val, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryCache) CacheKey(parts ...string) string {
	key := "cache"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func sampleAggregates() []StatusAggregate {
	return []StatusAggregate{
		{Status: enums.OrderStatusAwaitingPayment, Count: 2, Sum: decimal.RequireFromString("40.00")},
		{Status: enums.OrderStatusAwaitingArtwork, Count: 1, Sum: decimal.RequireFromString("15.00")},
		{Status: enums.OrderStatusInProduction, Count: 3, Sum: decimal.RequireFromString("90.00")},
		{Status: enums.OrderStatusReadyForPickup, Count: 1, Sum: decimal.RequireFromString("25.00")},
		{Status: enums.OrderStatusCompleted, Count: 4, Sum: decimal.RequireFromString("200.00")},
		{Status: enums.OrderStatusCanceled, Count: 2, Sum: decimal.RequireFromString("60.00")},
	}
}

func TestGetOverview_Stats(t *testing.T) {
	repo := &stubDashboardRepo{aggregates: sampleAggregates()}
	birthdays := &stubBirthdays{clients: []models.Client{{Name: "Maria"}}}

	svc, err := NewService(repo, birthdays, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	overview, err := svc.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview returned error: %v", err)
	}

	stats := overview.Stats
	if stats.TotalOrders != 13 {
		t.Fatalf("expected 13 total orders, got %d", stats.TotalOrders)
	}
	// revenue excludes canceled, awaiting payment, and awaiting artwork
	if !stats.Revenue.Equal(decimal.RequireFromString("315.00")) {
		t.Fatalf("expected revenue 315.00, got %s", stats.Revenue)
	}
	// active excludes the terminal statuses
	if stats.ActiveOrders != 7 {
		t.Fatalf("expected 7 active orders, got %d", stats.ActiveOrders)
	}
	if stats.InProduction != 3 || stats.Canceled != 2 || stats.Completed != 4 {
		t.Fatalf("unexpected per-status counts: %+v", stats)
	}
	if len(overview.Birthdays) != 1 {
		t.Fatalf("expected 1 birthday client, got %d", len(overview.Birthdays))
	}
	if birthdays.month != time.Now().Month() {
		t.Fatalf("expected current month, got %v", birthdays.month)
	}
}

func TestGetOverview_UsesCache(t *testing.T) {
	repo := &stubDashboardRepo{aggregates: sampleAggregates()}
	cache := newMemoryCache()

	svc, err := NewService(repo, &stubBirthdays{}, cache, time.Minute, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.GetOverview(context.Background()); err != nil {
		t.Fatalf("GetOverview returned error: %v", err)
	}
	if _, err := svc.GetOverview(context.Background()); err != nil {
		t.Fatalf("GetOverview returned error: %v", err)
	}
	if repo.aggregateCalls != 1 {
		t.Fatalf("expected second call served from cache, got %d aggregate queries", repo.aggregateCalls)
	}
}

func TestGetOverview_RecentOrdersCapped(t *testing.T) {
	recent := make([]models.Order, 8)
	repo := &stubDashboardRepo{recent: recent}

	svc, err := NewService(repo, &stubBirthdays{}, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	overview, err := svc.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview returned error: %v", err)
	}
	if len(overview.RecentOrders) != recentOrdersLimit {
		t.Fatalf("expected %d recent orders, got %d", recentOrdersLimit, len(overview.RecentOrders))
	}
}
