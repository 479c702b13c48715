package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/pkg/db/models"
	"github.com/printflowhq/printflow-backend/pkg/enums"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/money"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

// Service exposes order lifecycle semantics: creation with line item
// consolidation, item mutation, discount-aware total recomputation, and
// artwork attachment.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*pagination.Page[models.Order], error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, orderID uuid.UUID, req ItemRequest) (*models.Order, error)
	UpdateItem(ctx context.Context, orderID, productID uuid.UUID, input UpdateItemInput) (*models.Order, error)
	RemoveItem(ctx context.Context, orderID, productID uuid.UUID) (*models.Order, error)
	AttachArtwork(ctx context.Context, orderID, productID uuid.UUID, path string) (*models.Order, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	clients  clientReader
	products productReader
	artwork  ArtworkRemover
	now      func() time.Time
}

// NewService builds an order service backed by the provided repositories.
func NewService(repo Repository, tx txRunner, clients clientReader, products productReader, artwork ArtworkRemover) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if clients == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if artwork == nil {
		return nil, fmt.Errorf("artwork remover required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		clients:  clients,
		products: products,
		artwork:  artwork,
		now:      time.Now,
	}, nil
}

// CreateOrder consolidates the requested items, snapshots product names and
// prices, validates the discount against the items subtotal, and persists the
// aggregate in one transaction.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := s.ensureClient(ctx, input.ClientID); err != nil {
		return nil, err
	}

	status := enums.OrderStatusAwaitingPayment
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", string(*input.Status))
		}
		status = *input.Status
	}

	merged, err := consolidateItems(input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ClientID:  input.ClientID,
		OrderDate: dateOnly(input.OrderDate),
		Status:    status,
		Notes:     input.Notes,
		Discount:  input.Discount.Decimal(),
	}
	if status == enums.OrderStatusCompleted {
		completed := dateOnly(s.now())
		order.CompletedAt = &completed
	}

	order.Items = make([]models.OrderItem, 0, len(merged))
	for _, req := range merged {
		item, err := s.buildItem(ctx, req)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := s.recomputeTotal(order); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return s.GetOrderDetail(ctx, order.ID)
}

// GetOrderDetail loads an order with its client and line items.
func (s *service) GetOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

// ListOrders returns a filtered, paginated page of orders.
func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*pagination.Page[models.Order], error) {
	page, err := s.repo.List(ctx, params.Normalize(), filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return page, nil
}

// UpdateOrder applies order-level field changes. The total is recomputed
// whenever the discount moves, and the completion date is stamped or cleared
// as the order enters or leaves the completed status.
func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	order, err := s.GetOrderDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ClientID != nil && *input.ClientID != order.ClientID {
		if err := s.ensureClient(ctx, *input.ClientID); err != nil {
			return nil, err
		}
		order.ClientID = *input.ClientID
	}
	if input.OrderDate != nil {
		order.OrderDate = dateOnly(*input.OrderDate)
	}
	if input.Notes != nil {
		order.Notes = input.Notes
	}
	if input.Discount != nil {
		order.Discount = input.Discount.Decimal()
	}
	if input.Status != nil && *input.Status != order.Status {
		if !input.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", string(*input.Status))
		}
		s.applyStatusChange(order, *input.Status)
	}

	if err := s.recomputeTotal(order); err != nil {
		return nil, err
	}
	return s.saveAggregate(ctx, order, nil)
}

// DeleteOrder removes the order and its items, then clears any stored artwork
// files once the delete has committed.
func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.GetOrderDetail(ctx, id)
	if err != nil {
		return err
	}

	var orphaned []string
	for _, item := range order.Items {
		if item.ArtworkPath != nil {
			orphaned = append(orphaned, *item.ArtworkPath)
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}

	for _, path := range orphaned {
		s.artwork.Delete(ctx, path)
	}
	return nil
}

// AddItem appends a product line to an existing order. Adding a product the
// order already carries merges into the existing line instead of duplicating
// it, following the same policy as creation-time consolidation.
func (s *service) AddItem(ctx context.Context, orderID uuid.UUID, req ItemRequest) (*models.Order, error) {
	order, err := s.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
	}

	if existing := findItem(order, req.ProductID); existing != nil {
		existing.Quantity += req.Quantity
		if hasText(req.Notes) {
			existing.Notes = req.Notes
		}
		if req.UnitPrice != nil {
			existing.UnitPrice = req.UnitPrice.Decimal()
		}
	} else {
		item, err := s.buildItem(ctx, req)
		if err != nil {
			return nil, err
		}
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}

	if err := s.recomputeTotal(order); err != nil {
		return nil, err
	}
	return s.saveAggregate(ctx, order, nil)
}

// UpdateItem mutates one line item in place and recomputes the order total.
func (s *service) UpdateItem(ctx context.Context, orderID, productID uuid.UUID, input UpdateItemInput) (*models.Order, error) {
	order, err := s.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	item := findItem(order, productID)
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
	}

	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		item.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = input.UnitPrice.Decimal()
	}
	if input.Notes != nil {
		item.Notes = input.Notes
	}

	if err := s.recomputeTotal(order); err != nil {
		return nil, err
	}
	return s.saveAggregate(ctx, order, nil)
}

// RemoveItem drops a product line. An order is never left empty; removing the
// last line is rejected so callers delete the order instead.
func (s *service) RemoveItem(ctx context.Context, orderID, productID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	item := findItem(order, productID)
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
	}
	if len(order.Items) == 1 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order must contain at least one item")
	}

	var orphaned []string
	if item.ArtworkPath != nil {
		orphaned = append(orphaned, *item.ArtworkPath)
	}

	kept := make([]models.OrderItem, 0, len(order.Items)-1)
	for _, it := range order.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	order.Items = kept

	if err := s.recomputeTotal(order); err != nil {
		return nil, err
	}
	return s.saveAggregate(ctx, order, orphaned)
}

// AttachArtwork records a stored artwork file against a line item. The
// previous file, if any, is deleted only after the new path has committed; a
// failed save deletes the freshly stored file instead so nothing leaks.
func (s *service) AttachArtwork(ctx context.Context, orderID, productID uuid.UUID, path string) (*models.Order, error) {
	order, err := s.GetOrderDetail(ctx, orderID)
	if err != nil {
		s.artwork.Delete(ctx, path)
		return nil, err
	}
	item := findItem(order, productID)
	if item == nil {
		s.artwork.Delete(ctx, path)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
	}

	var orphaned []string
	if item.ArtworkPath != nil && *item.ArtworkPath != path {
		orphaned = append(orphaned, *item.ArtworkPath)
	}
	item.ArtworkPath = &path

	saved, err := s.saveAggregate(ctx, order, orphaned)
	if err != nil {
		s.artwork.Delete(ctx, path)
		return nil, err
	}
	return saved, nil
}

// saveAggregate persists the order in a transaction and reloads it. Paths in
// orphaned are deleted from artwork storage only after the commit succeeds.
func (s *service) saveAggregate(ctx context.Context, order *models.Order, orphaned []string) (*models.Order, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Save(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
	}
	for _, path := range orphaned {
		s.artwork.Delete(ctx, path)
	}
	return s.GetOrderDetail(ctx, order.ID)
}

// recomputeTotal derives the order total from its line items and discount.
// The discount must not be negative and must not exceed the items subtotal.
func (s *service) recomputeTotal(order *models.Order) error {
	subtotal := money.Zero()
	for _, item := range order.Items {
		unit, err := money.FromDecimal(item.UnitPrice)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "item unit price")
		}
		subtotal = subtotal.Add(unit.MulInt(item.Quantity))
	}

	discount, err := money.FromDecimal(order.Discount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order discount")
	}
	if discount.IsNegative() {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"discount %s cannot be negative (items subtotal %s)", discount, subtotal).
			WithDetails(map[string]string{
				"discount": discount.String(),
				"subtotal": subtotal.String(),
			})
	}
	if discount.GreaterThan(subtotal) {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"discount %s exceeds items subtotal %s", discount, subtotal).
			WithDetails(map[string]string{
				"discount": discount.String(),
				"subtotal": subtotal.String(),
			})
	}

	order.Total = subtotal.Sub(discount).FloorZero().Decimal()
	return nil
}

// buildItem resolves the product and snapshots its name and effective price.
func (s *service) buildItem(ctx context.Context, req ItemRequest) (models.OrderItem, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.OrderItem{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", req.ProductID)
		}
		return models.OrderItem{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	price := product.BasePrice
	if req.UnitPrice != nil {
		price = req.UnitPrice.Decimal()
	}
	if _, err := money.FromDecimal(price); err != nil {
		return models.OrderItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "item unit price")
	}

	return models.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		UnitPrice:   price,
		Notes:       req.Notes,
	}, nil
}

func (s *service) ensureClient(ctx context.Context, id uuid.UUID) error {
	ok, err := s.clients.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check client")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return nil
}

// applyStatusChange moves the order to the new status and keeps the
// completion date in step: entering the completed status stamps today, any
// other status clears it.
func (s *service) applyStatusChange(order *models.Order, next enums.OrderStatus) {
	order.Status = next
	if next == enums.OrderStatusCompleted {
		completed := dateOnly(s.now())
		order.CompletedAt = &completed
		return
	}
	order.CompletedAt = nil
}

func findItem(order *models.Order, productID uuid.UUID) *models.OrderItem {
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			return &order.Items[i]
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
