package enums

import "fmt"

// OrderStatus tracks where an order sits in the shop's production flow. The
// values are the exact labels the storefront displays, so they are stored
// verbatim.
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "Aguardando Pagamento"
	OrderStatusAwaitingArtwork OrderStatus = "Aguardando Arte"
	OrderStatusInProduction    OrderStatus = "Em Produção"
	OrderStatusReadyForPickup  OrderStatus = "Pronto para Retirada"
	OrderStatusCompleted       OrderStatus = "Concluído"
	OrderStatusCanceled        OrderStatus = "Cancelado"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusAwaitingPayment,
	OrderStatusAwaitingArtwork,
	OrderStatusInProduction,
	OrderStatusReadyForPickup,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the order's lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// CountsTowardRevenue reports whether orders in this status are included in
// the dashboard revenue figure. Orders still waiting on payment or artwork
// have not earned anything yet, and canceled orders never will.
func (s OrderStatus) CountsTowardRevenue() bool {
	switch s {
	case OrderStatusCanceled, OrderStatusAwaitingPayment, OrderStatusAwaitingArtwork:
		return false
	default:
		return true
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatuses returns every known status in business-process order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}
