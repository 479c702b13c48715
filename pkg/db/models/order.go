package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printflowhq/printflow-backend/pkg/enums"
)

// Order is the aggregate root for a customer purchase. Total is derived from
// the line items and discount; it is never accepted from callers.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID    uuid.UUID         `gorm:"column:client_id;type:uuid;not null"`
	OrderDate   time.Time         `gorm:"column:order_date;type:date;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'Aguardando Pagamento'"`
	Notes       *string           `gorm:"column:notes"`
	Discount    decimal.Decimal   `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null;default:0"`
	CompletedAt *time.Time        `gorm:"column:completed_at;type:date"`
	Client      *Client           `gorm:"foreignKey:ClientID"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
