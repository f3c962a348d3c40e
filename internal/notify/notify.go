package notify

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/openbasket/marketplace/internal/models"
)

const (
	TemplateReady  = "ready"
	TemplatePicked = "picked"
)

type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type OrderPayload struct {
	OrderID         uint            `json:"order_id"`
	ShopName        string          `json:"shop_name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	Items           []LineItem      `json:"items"`
}

// Dispatcher delivers order notifications to the purchaser. Delivery is
// best-effort: callers log failures and never fail the request over them.
type Dispatcher interface {
	Dispatch(ctx context.Context, template, recipient string, payload OrderPayload) error
}

// PayloadFromOrder projects a hydrated order (Shop and OrderItems.Item
// loaded) into the notification payload.
func PayloadFromOrder(o *models.Order) OrderPayload {
	items := make([]LineItem, 0, len(o.OrderItems))
	for _, oi := range o.OrderItems {
		items = append(items, LineItem{
			Name:     oi.Item.Name,
			Quantity: oi.Quantity,
			Subtotal: oi.Subtotal,
		})
	}
	return OrderPayload{
		OrderID:         o.ID,
		ShopName:        o.Shop.Name,
		TotalAmount:     o.TotalAmount,
		DeliveryAddress: o.DeliveryAddress,
		Items:           items,
	}
}
