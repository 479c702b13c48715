package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordersvc "github.com/printflowhq/printflow-backend/internal/orders"
	"github.com/printflowhq/printflow-backend/pkg/db/models"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

type stubOrdersService struct {
	createFn  func(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error)
	getFn     func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	listFn    func(ctx context.Context, params pagination.Params, filters ordersvc.ListFilters) (*pagination.Page[models.Order], error)
	updateFn  func(ctx context.Context, id uuid.UUID, input ordersvc.UpdateOrderInput) (*models.Order, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error
	addFn     func(ctx context.Context, orderID uuid.UUID, req ordersvc.ItemRequest) (*models.Order, error)
	updItemFn func(ctx context.Context, orderID, productID uuid.UUID, input ordersvc.UpdateItemInput) (*models.Order, error)
	rmItemFn  func(ctx context.Context, orderID, productID uuid.UUID) (*models.Order, error)
	attachFn  func(ctx context.Context, orderID, productID uuid.UUID, path string) (*models.Order, error)
}

func (s stubOrdersService) CreateOrder(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
	return s.createFn(ctx, input)
}

func (s stubOrdersService) GetOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.getFn(ctx, id)
}

func (s stubOrdersService) ListOrders(ctx context.Context, params pagination.Params, filters ordersvc.ListFilters) (*pagination.Page[models.Order], error) {
	return s.listFn(ctx, params, filters)
}

func (s stubOrdersService) UpdateOrder(ctx context.Context, id uuid.UUID, input ordersvc.UpdateOrderInput) (*models.Order, error) {
	return s.updateFn(ctx, id, input)
}

func (s stubOrdersService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func (s stubOrdersService) AddItem(ctx context.Context, orderID uuid.UUID, req ordersvc.ItemRequest) (*models.Order, error) {
	return s.addFn(ctx, orderID, req)
}

func (s stubOrdersService) UpdateItem(ctx context.Context, orderID, productID uuid.UUID, input ordersvc.UpdateItemInput) (*models.Order, error) {
	return s.updItemFn(ctx, orderID, productID, input)
}

func (s stubOrdersService) RemoveItem(ctx context.Context, orderID, productID uuid.UUID) (*models.Order, error) {
	return s.rmItemFn(ctx, orderID, productID)
}

func (s stubOrdersService) AttachArtwork(ctx context.Context, orderID, productID uuid.UUID, path string) (*models.Order, error) {
	return s.attachFn(ctx, orderID, productID, path)
}

func withPathParams(r *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateOrderParsesPayload(t *testing.T) {
	clientID := uuid.New()
	productID := uuid.New()
	body := `{
		"client_id": "` + clientID.String() + `",
		"order_date": "2026-03-10",
		"discount": "3.00",
		"items": [
			{"product_id": "` + productID.String() + `", "quantity": 2, "unit_price": "4.50"}
		]
	}`

	svc := stubOrdersService{
		createFn: func(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
			if input.ClientID != clientID {
				t.Fatalf("unexpected client id %s", input.ClientID)
			}
			if got := input.OrderDate.Format("2006-01-02"); got != "2026-03-10" {
				t.Fatalf("unexpected order date %s", got)
			}
			if input.Discount.String() != "3.00" {
				t.Fatalf("unexpected discount %s", input.Discount)
			}
			if len(input.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(input.Items))
			}
			item := input.Items[0]
			if item.ProductID != productID || item.Quantity != 2 {
				t.Fatalf("unexpected item %+v", item)
			}
			if item.UnitPrice == nil || item.UnitPrice.String() != "4.50" {
				t.Fatalf("expected unit price override, got %+v", item.UnitPrice)
			}
			return &models.Order{ID: uuid.New(), ClientID: clientID}, nil
		},
	}

	handler := CreateOrder(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateOrderRejectsBadDate(t *testing.T) {
	body := `{"client_id": "` + uuid.NewString() + `", "order_date": "10/03/2026", "items": []}`

	handler := CreateOrder(stubOrdersService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateOrderSurfacesDiscountConflict(t *testing.T) {
	body := `{
		"client_id": "` + uuid.NewString() + `",
		"order_date": "2026-03-10",
		"discount": "100.00",
		"items": [{"product_id": "` + uuid.NewString() + `", "quantity": 1}]
	}`

	svc := stubOrdersService{
		createFn: func(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "discount 100.00 exceeds items subtotal 10.00")
		},
	}

	handler := CreateOrder(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(envelope.Error.Message, "exceeds items subtotal") {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestGetOrderParsesPathID(t *testing.T) {
	orderID := uuid.New()
	svc := stubOrdersService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			if id != orderID {
				t.Fatalf("unexpected id %s", id)
			}
			return &models.Order{ID: orderID}, nil
		},
	}

	handler := GetOrder(svc, nil)
	req := withPathParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"orderID": orderID.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListOrdersParsesFilters(t *testing.T) {
	svc := stubOrdersService{
		listFn: func(ctx context.Context, params pagination.Params, filters ordersvc.ListFilters) (*pagination.Page[models.Order], error) {
			if params.Limit != 5 || params.Offset != 10 {
				t.Fatalf("unexpected params %+v", params)
			}
			if filters.Query != "maria" {
				t.Fatalf("unexpected query %q", filters.Query)
			}
			if filters.Status == nil || string(*filters.Status) != "Em Produção" {
				t.Fatalf("unexpected status %v", filters.Status)
			}
			if filters.MinTotal == nil || filters.MinTotal.String() != "50.00" {
				t.Fatalf("unexpected min total %v", filters.MinTotal)
			}
			return &pagination.Page[models.Order]{Data: []models.Order{}, Total: 0}, nil
		},
	}

	handler := ListOrders(svc, nil)
	target := "/?limit=5&offset=10&q=maria&min_total=50.00&status=" + "Em+Produ%C3%A7%C3%A3o"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRemoveOrderItemRoutesBothIDs(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	svc := stubOrdersService{
		rmItemFn: func(ctx context.Context, gotOrder, gotProduct uuid.UUID) (*models.Order, error) {
			if gotOrder != orderID || gotProduct != productID {
				t.Fatalf("unexpected ids %s %s", gotOrder, gotProduct)
			}
			return &models.Order{ID: orderID}, nil
		},
	}

	handler := RemoveOrderItem(svc, nil)
	req := withPathParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{
		"orderID":   orderID.String(),
		"productID": productID.String(),
	})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
