package products

import "github.com/printflowhq/printflow-backend/pkg/money"

// CreateProductInput carries the fields accepted when adding a catalog entry.
type CreateProductInput struct {
	Name        string
	Description *string
	BasePrice   money.Money
	Unit        *string
}

// UpdateProductInput is a partial update; nil leaves the field unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	BasePrice   *money.Money
	Unit        *string
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	Query    string
	MinPrice *money.Money
	MaxPrice *money.Money
}
