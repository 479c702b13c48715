package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/pkg/db/models"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

// Repository persists the order aggregate (order + owned line items).
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// FindByID loads the order with its line items and client eagerly attached.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// Create inserts a new order together with its line items.
	Create(ctx context.Context, order *models.Order) error
	// Save writes the aggregate back, diffing line items against what the
	// database currently holds: new items are inserted, existing ones
	// updated, and rows missing from the aggregate deleted.
	Save(ctx context.Context, order *models.Order) error
	// Delete removes the order and, via the owned collection, its items.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*pagination.Page[models.Order], error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type clientReader interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ArtworkRemover deletes stored artwork files. Calls happen strictly after the
// owning database transaction commits.
type ArtworkRemover interface {
	Delete(ctx context.Context, path string)
}
