package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/printflowhq/printflow-backend/pkg/enums"
	"github.com/printflowhq/printflow-backend/pkg/money"
)

// ItemRequest is one requested product line. UnitPrice, when present, is an
// explicit override of the product's base price and always wins.
type ItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
	Notes     *string
	UnitPrice *money.Money
}

// CreateOrderInput carries everything needed to open an order.
type CreateOrderInput struct {
	ClientID  uuid.UUID
	OrderDate time.Time
	Status    *enums.OrderStatus
	Notes     *string
	Discount  money.Money
	Items     []ItemRequest
}

// UpdateOrderInput mutates order-level fields. Nil means "leave unchanged";
// each pointer field is an explicit absent-vs-present tri-state.
type UpdateOrderInput struct {
	ClientID  *uuid.UUID
	OrderDate *time.Time
	Status    *enums.OrderStatus
	Notes     *string
	Discount  *money.Money
}

// UpdateItemInput mutates a single line item in place.
type UpdateItemInput struct {
	Quantity  *int
	UnitPrice *money.Money
	Notes     *string
}

// ListFilters narrows the order list endpoint.
type ListFilters struct {
	Query         string
	Status        *enums.OrderStatus
	OrderDate     *time.Time
	CompletedDate *time.Time
	MinTotal      *money.Money
	MaxTotal      *money.Money
}
