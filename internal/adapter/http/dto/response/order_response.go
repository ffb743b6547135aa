package response

import (
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase"
)

type OrderResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	TotalAmount     string    `json:"total_amount"`
	Status          string    `json:"status"`
	ActiveInvoiceID string    `json:"active_invoice_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Status:          string(o.Status),
		ActiveInvoiceID: o.ActiveInvoiceID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type OrderPaymentStatusResponse struct {
	OrderID       string           `json:"order_id"`
	OrderStatus   string           `json:"order_status"`
	TotalAmount   string           `json:"total_amount"`
	ActiveInvoice *InvoiceResponse `json:"active_invoice,omitempty"`
}

func FromOrderPaymentStatus(st usecase.OrderPaymentStatus) OrderPaymentStatusResponse {
	res := OrderPaymentStatusResponse{
		OrderID:     st.Order.ID,
		OrderStatus: string(st.Order.Status),
		TotalAmount: st.Order.TotalAmount.StringFixed(2),
	}
	if st.ActiveInvoice != nil {
		inv := FromInvoice(*st.ActiveInvoice, true)
		res.ActiveInvoice = &inv
	}
	return res
}
