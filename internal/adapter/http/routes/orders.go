package routes

import (
	"restaurant_payments/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const PathOrders = "/orders"

func addOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, payments *handlers.PaymentHandler, auth gin.HandlerFunc) {
	orders := rg.Group(PathOrders, auth)
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/payment-status", payments.GetOrderPaymentStatus)
	}
}
