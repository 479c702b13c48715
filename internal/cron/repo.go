package cron

import (
	"context"

	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/internal/repo"
	"github.com/printflowhq/printflow-backend/pkg/db/models"
)

type repository struct {
	base repo.Base
}

// NewRepository builds the read-only queries the maintenance jobs need.
func NewRepository(db *gorm.DB) *repository {
	return &repository{base: repo.NewBase(db)}
}

// ListArtworkPaths returns every artwork path currently referenced by an
// order line item.
func (r *repository) ListArtworkPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.base.DB(ctx).
		Model(&models.OrderItem{}).
		Where("artwork_path IS NOT NULL").
		Pluck("artwork_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}
