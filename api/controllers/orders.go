package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/printflowhq/printflow-backend/api/responses"
	"github.com/printflowhq/printflow-backend/api/validators"
	"github.com/printflowhq/printflow-backend/internal/artwork"
	ordersvc "github.com/printflowhq/printflow-backend/internal/orders"
	"github.com/printflowhq/printflow-backend/pkg/enums"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/logger"
	"github.com/printflowhq/printflow-backend/pkg/money"
)

const orderDateLayout = "2006-01-02"

type orderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Notes     *string `json:"notes,omitempty"`
	UnitPrice *string `json:"unit_price,omitempty"`
}

type createOrderRequest struct {
	ClientID  string             `json:"client_id" validate:"required,uuid"`
	OrderDate string             `json:"order_date" validate:"required"`
	Status    *string            `json:"status,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
	Discount  *string            `json:"discount,omitempty"`
	Items     []orderItemRequest `json:"items" validate:"dive"`
}

type updateOrderRequest struct {
	ClientID  *string `json:"client_id,omitempty" validate:"omitempty,uuid"`
	OrderDate *string `json:"order_date,omitempty"`
	Status    *string `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Discount  *string `json:"discount,omitempty"`
}

type updateOrderItemRequest struct {
	Quantity  *int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	UnitPrice *string `json:"unit_price,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (r orderItemRequest) toItemRequest() (ordersvc.ItemRequest, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return ordersvc.ItemRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	item := ordersvc.ItemRequest{
		ProductID: productID,
		Quantity:  r.Quantity,
		Notes:     r.Notes,
	}
	if r.UnitPrice != nil {
		price, err := money.Parse(*r.UnitPrice)
		if err != nil {
			return ordersvc.ItemRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unit_price must be a monetary amount")
		}
		item.UnitPrice = &price
	}
	return item, nil
}

func parseOrderDate(raw string) (time.Time, error) {
	value, err := time.ParseInLocation(orderDateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "order_date must be a date (YYYY-MM-DD)")
	}
	return value, nil
}

func parseStatus(raw *string) (*enums.OrderStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}
	return &status, nil
}

func parseDiscount(raw *string) (*money.Money, error) {
	if raw == nil {
		return nil, nil
	}
	discount, err := money.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "discount must be a monetary amount")
	}
	return &discount, nil
}

func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clientID, err := uuid.Parse(payload.ClientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid client id"))
			return
		}
		orderDate, err := parseOrderDate(payload.OrderDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discount, err := parseDiscount(payload.Discount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.CreateOrderInput{
			ClientID:  clientID,
			OrderDate: orderDate,
			Status:    status,
			Notes:     payload.Notes,
			Discount:  money.Zero(),
		}
		if discount != nil {
			input.Discount = *discount
		}
		input.Items = make([]ordersvc.ItemRequest, 0, len(payload.Items))
		for _, item := range payload.Items {
			req, err := item.toItemRequest()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Items = append(input.Items, req)
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrderDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := validators.ParseQueryOrderStatus(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderDate, err := validators.ParseQueryDate(r, "order_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		completedDate, err := validators.ParseQueryDate(r, "completed_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minTotal, err := validators.ParseQueryMoney(r, "min_total")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxTotal, err := validators.ParseQueryMoney(r, "max_total")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListOrders(r.Context(), params, ordersvc.ListFilters{
			Query:         r.URL.Query().Get("q"),
			Status:        status,
			OrderDate:     orderDate,
			CompletedDate: completedDate,
			MinTotal:      minTotal,
			MaxTotal:      maxTotal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, page.Data, page.Total)
	}
}

func UpdateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.UpdateOrderInput{Notes: payload.Notes}
		if payload.ClientID != nil {
			clientID, err := uuid.Parse(*payload.ClientID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid client id"))
				return
			}
			input.ClientID = &clientID
		}
		if payload.OrderDate != nil {
			orderDate, err := parseOrderDate(*payload.OrderDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.OrderDate = &orderDate
		}
		input.Status, err = parseStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Discount, err = parseDiscount(payload.Discount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateOrder(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func DeleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AddOrderItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req, err := payload.toItemRequest()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddItem(r.Context(), orderID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func UpdateOrderItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.UpdateItemInput{
			Quantity: payload.Quantity,
			Notes:    payload.Notes,
		}
		if payload.UnitPrice != nil {
			price, err := money.Parse(*payload.UnitPrice)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unit_price must be a monetary amount"))
				return
			}
			input.UnitPrice = &price
		}

		order, err := svc.UpdateItem(r.Context(), orderID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func RemoveOrderItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RemoveItem(r.Context(), orderID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UploadOrderItemArtwork stores the uploaded image and attaches it to the
// line item. The store validates size and format; the service swaps the path
// and cleans up whichever file loses.
func UploadOrderItemArtwork(svc ordersvc.Service, store artwork.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "multipart field 'file' required"))
			return
		}
		defer file.Close()

		path, err := store.Store(r.Context(), file, orderID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AttachArtwork(r.Context(), orderID, productID, path)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
