package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/internal/repo"
	"github.com/printflowhq/printflow-backend/pkg/db/models"
	"github.com/printflowhq/printflow-backend/pkg/enums"
)

// StatusAggregate is one row of the per-status count/sum rollup.
type StatusAggregate struct {
	Status enums.OrderStatus
	Count  int64
	Sum    decimal.Decimal
}

// Repository exposes the read-only aggregate queries behind the dashboard.
type Repository interface {
	AggregateByStatus(ctx context.Context) ([]StatusAggregate, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) AggregateByStatus(ctx context.Context) ([]StatusAggregate, error) {
	var rows []struct {
		Status enums.OrderStatus
		Count  int64
		Sum    decimal.NullDecimal
	}
	err := r.base.DB(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count, SUM(total) AS sum").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	aggregates := make([]StatusAggregate, 0, len(rows))
	for _, row := range rows {
		sum := decimal.Zero
		if row.Sum.Valid {
			sum = row.Sum.Decimal
		}
		aggregates = append(aggregates, StatusAggregate{
			Status: row.Status,
			Count:  row.Count,
			Sum:    sum,
		})
	}
	return aggregates, nil
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.base.DB(ctx).
		Preload("Client").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
