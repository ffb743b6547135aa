package request

import (
	"strings"

	"restaurant_payments/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" binding:"required"`
}

// CreateOrderRequest registers an order; prices accept JSON numbers or strings.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreateOrderRequest) ToItems() []entities.OrderItem {
	items := make([]entities.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.OrderItem{
			Name:     strings.TrimSpace(it.Name),
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}
	return items
}
