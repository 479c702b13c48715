package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/printflowhq/printflow-backend/pkg/db/models"
)

// Stats aggregates order counts per status plus the derived business figures.
type Stats struct {
	TotalOrders     int64           `json:"total_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
	ActiveOrders    int64           `json:"active_orders"`
	AwaitingPayment int64           `json:"awaiting_payment"`
	AwaitingArtwork int64           `json:"awaiting_artwork"`
	InProduction    int64           `json:"in_production"`
	ReadyForPickup  int64           `json:"ready_for_pickup"`
	Completed       int64           `json:"completed"`
	Canceled        int64           `json:"canceled"`
}

// Overview is the full dashboard payload.
type Overview struct {
	Stats        Stats           `json:"stats"`
	RecentOrders []models.Order  `json:"recent_orders"`
	Birthdays    []models.Client `json:"birthdays"`
}
