package orders

import (
	"time"

	"github.com/mesaqr/mesaqr-backend/pkg/enums"
)

// ConfirmationLine is one ordered item on the confirmation page.
type ConfirmationLine struct {
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	UnitPrice       int64  `json:"unit_price"`
	Subtotal        int64  `json:"subtotal"`
	SubtotalDisplay string `json:"subtotal_display"`
}

// ConfirmationView is the read model backing the order confirmation page.
type ConfirmationView struct {
	OrderID      uint               `json:"order_id"`
	TableNumber  int                `json:"table_number"`
	IsDelivery   bool               `json:"is_delivery"`
	Status       enums.OrderStatus  `json:"status"`
	Total        int64              `json:"total"`
	TotalDisplay string             `json:"total_display"`
	CreatedAt    time.Time          `json:"created_at"`
	Lines        []ConfirmationLine `json:"lines"`
}
