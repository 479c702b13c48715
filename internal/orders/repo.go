package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/printflowhq/printflow-backend/internal/repo"
	"github.com/printflowhq/printflow-backend/pkg/db/models"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

type repository struct {
	base repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{base: r.base.WithTx(tx)}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.base.DB(ctx).
		Preload("Client").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, product_id ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.base.DB(ctx).Create(order).Error
}

// Save reconciles the aggregate against the stored rows. The order row is
// updated wholesale; line items are diffed by product id so rows dropped from
// the aggregate are deleted rather than left behind.
func (r *repository) Save(ctx context.Context, order *models.Order) error {
	tx := r.base.DB(ctx)

	if err := tx.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"client_id":    order.ClientID,
			"order_date":   order.OrderDate,
			"status":       order.Status,
			"notes":        order.Notes,
			"discount":     order.Discount,
			"total":        order.Total,
			"completed_at": order.CompletedAt,
		}).Error; err != nil {
		return err
	}

	var existing []uuid.UUID
	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ?", order.ID).
		Pluck("product_id", &existing).Error; err != nil {
		return err
	}

	kept := make(map[uuid.UUID]struct{}, len(order.Items))
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		kept[order.Items[i].ProductID] = struct{}{}
	}

	var removed []uuid.UUID
	for _, productID := range existing {
		if _, ok := kept[productID]; !ok {
			removed = append(removed, productID)
		}
	}
	if len(removed) > 0 {
		if err := tx.Where("order_id = ? AND product_id IN ?", order.ID, removed).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
	}

	if len(order.Items) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_name", "quantity", "unit_price", "notes", "artwork_path", "updated_at",
		}),
	}).Create(&order.Items).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.base.DB(ctx).Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*pagination.Page[models.Order], error) {
	query := r.base.DB(ctx).Model(&models.Order{})

	if filters.Query != "" {
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		query = query.
			Joins("JOIN clients ON clients.id = orders.client_id").
			Where("LOWER(clients.name) LIKE ? OR LOWER(orders.notes) LIKE ?", pattern, pattern)
	}
	if filters.Status != nil {
		query = query.Where("orders.status = ?", *filters.Status)
	}
	if filters.OrderDate != nil {
		query = query.Where("orders.order_date = ?", *filters.OrderDate)
	}
	if filters.CompletedDate != nil {
		query = query.Where("orders.completed_at = ?", *filters.CompletedDate)
	}
	if filters.MinTotal != nil {
		query = query.Where("orders.total >= ?", filters.MinTotal.Decimal())
	}
	if filters.MaxTotal != nil {
		query = query.Where("orders.total <= ?", filters.MaxTotal.Decimal())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Order
	err := query.
		Preload("Client").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, product_id ASC")
		}).
		Order("orders.order_date DESC").
		Order("orders.created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &pagination.Page[models.Order]{Data: rows, Total: total}, nil
}
