package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/printflowhq/printflow-backend/pkg/db/models"
	"github.com/printflowhq/printflow-backend/pkg/enums"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/logger"
)

const recentOrdersLimit = 5

type birthdayReader interface {
	ListByBirthMonth(ctx context.Context, month time.Month) ([]models.Client, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service builds the dashboard overview.
type Service interface {
	GetOverview(ctx context.Context) (*Overview, error)
}

type service struct {
	repo      Repository
	birthdays birthdayReader
	cache     cache
	cacheTTL  time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewService builds a dashboard service. The cache is optional; with no cache
// every call recomputes from the database.
func NewService(repo Repository, birthdays birthdayReader, cache cache, cacheTTL time.Duration, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if birthdays == nil {
		return nil, fmt.Errorf("birthday reader required")
	}
	return &service{
		repo:      repo,
		birthdays: birthdays,
		cache:     cache,
		cacheTTL:  cacheTTL,
		log:       log,
		now:       time.Now,
	}, nil
}

// GetOverview returns the per-status rollup, the most recent orders, and the
// clients with a birthday this month. Results are cached briefly; a cache
// failure degrades to a recompute, never to an error.
func (s *service) GetOverview(ctx context.Context) (*Overview, error) {
	key := ""
	if s.cache != nil {
		key = s.cache.CacheKey("dashboard", "overview")
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached Overview
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	overview, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(overview); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil && s.log != nil {
				s.log.Warn(ctx, "dashboard cache write failed")
			}
		}
	}
	return overview, nil
}

func (s *service) build(ctx context.Context) (*Overview, error) {
	aggregates, err := s.repo.AggregateByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate orders")
	}

	stats := statsFromAggregates(aggregates)

	recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent orders")
	}

	birthdays, err := s.birthdays.ListByBirthMonth(ctx, s.now().Month())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load birthday clients")
	}

	return &Overview{
		Stats:        stats,
		RecentOrders: recent,
		Birthdays:    birthdays,
	}, nil
}

// statsFromAggregates folds the per-status rollup into the dashboard figures.
// Revenue only counts orders that are paid and past the artwork stage; active
// orders are everything not yet terminal.
func statsFromAggregates(aggregates []StatusAggregate) Stats {
	stats := Stats{}
	for _, agg := range aggregates {
		stats.TotalOrders += agg.Count

		switch agg.Status {
		case enums.OrderStatusCanceled:
			stats.Canceled = agg.Count
		case enums.OrderStatusAwaitingPayment:
			stats.AwaitingPayment = agg.Count
		case enums.OrderStatusAwaitingArtwork:
			stats.AwaitingArtwork = agg.Count
		case enums.OrderStatusInProduction:
			stats.InProduction = agg.Count
		case enums.OrderStatusReadyForPickup:
			stats.ReadyForPickup = agg.Count
		case enums.OrderStatusCompleted:
			stats.Completed = agg.Count
		}

		if agg.Status.CountsTowardRevenue() {
			stats.Revenue = stats.Revenue.Add(agg.Sum)
		}
		if !agg.Status.IsTerminal() {
			stats.ActiveOrders += agg.Count
		}
	}
	return stats
}
