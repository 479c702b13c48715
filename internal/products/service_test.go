package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/pkg/db/models"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/money"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

type stubProductsRepo struct {
	products  map[uuid.UUID]*models.Product
	createErr error
	updateErr error
	deleteErr error
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	dup := *product
	s.products[product.ID] = &dup
	return nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	dup := *product
	return &dup, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, product *models.Product) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	dup := *product
	s.products[product.ID] = &dup
	return nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductsRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*pagination.Page[models.Product], error) {
	rows := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		rows = append(rows, *product)
	}
	return &pagination.Page[models.Product]{Data: rows, Total: int64(len(rows))}, nil
}

type uniqueErr struct{}

func (uniqueErr) Error() string { return `UNIQUE constraint failed: products.name` }

type fkErr struct{}

func (fkErr) Error() string { return `update or delete on table "products" violates foreign key constraint "order_items_product_id_fkey"` }

func newProductService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestCreateProduct_Succeeds(t *testing.T) {
	svc := newProductService(t, newStubProductsRepo())

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:      "  Camiseta  ",
		BasePrice: money.MustParse("10.00"),
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if product.Name != "Camiseta" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if !product.BasePrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected base price 10.00, got %s", product.BasePrice)
	}
}

func TestCreateProduct_BlankName(t *testing.T) {
	svc := newProductService(t, newStubProductsRepo())

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: " "})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	repo := newStubProductsRepo()
	repo.createErr = uniqueErr{}
	svc := newProductService(t, repo)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:      "Camiseta",
		BasePrice: money.MustParse("10.00"),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "a product with this name already exists" {
		t.Fatalf("expected entity-aware conflict message, got %q", got)
	}
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	repo := newStubProductsRepo()
	svc := newProductService(t, repo)

	unit := "un"
	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:      "Camiseta",
		BasePrice: money.MustParse("10.00"),
		Unit:      &unit,
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}

	price := money.MustParse("12.50")
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{BasePrice: &price})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if !updated.BasePrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected base price 12.50, got %s", updated.BasePrice)
	}
	if updated.Unit == nil || *updated.Unit != "un" {
		t.Fatalf("expected untouched unit, got %v", updated.Unit)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newProductService(t, newStubProductsRepo())

	name := "Caneca"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProduct_ReferencedByOrderItems(t *testing.T) {
	repo := newStubProductsRepo()
	svc := newProductService(t, repo)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:      "Camiseta",
		BasePrice: money.MustParse("10.00"),
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}

	repo.deleteErr = fkErr{}
	err = svc.DeleteProduct(context.Background(), created.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for referenced product, got %v", err)
	}
}
