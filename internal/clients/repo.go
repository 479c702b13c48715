package clients

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/internal/repo"
	"github.com/printflowhq/printflow-backend/pkg/db/models"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

// Repository exposes client persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params, query string) (*pagination.Page[models.Client], error)
	ListByBirthMonth(ctx context.Context, month time.Month) ([]models.Client, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds a clients repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{base: r.base.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, client *models.Client) error {
	return r.base.DB(ctx).Create(client).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.base.DB(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.base.DB(ctx).Model(&models.Client{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, client *models.Client) error {
	return r.base.DB(ctx).Save(client).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.base.DB(ctx).Where("id = ?", id).Delete(&models.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, query string) (*pagination.Page[models.Client], error) {
	q := r.base.DB(ctx).Model(&models.Client{})

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, "%"+query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Client
	err := q.Order("name ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return &pagination.Page[models.Client]{Data: rows, Total: total}, nil
}

// ListByBirthMonth returns clients whose birthday falls in the given month,
// ordered by day of month. Used by the dashboard's birthday panel.
func (r *repository) ListByBirthMonth(ctx context.Context, month time.Month) ([]models.Client, error) {
	monthExpr := "EXTRACT(MONTH FROM birth_date)"
	dayExpr := "EXTRACT(DAY FROM birth_date)"
	if r.base.Dialect() == "sqlite" {
		monthExpr = "CAST(STRFTIME('%m', birth_date) AS INTEGER)"
		dayExpr = "CAST(STRFTIME('%d', birth_date) AS INTEGER)"
	}

	var rows []models.Client
	err := r.base.DB(ctx).
		Where("birth_date IS NOT NULL").
		Where(monthExpr+" = ?", int(month)).
		Order(dayExpr + " ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
