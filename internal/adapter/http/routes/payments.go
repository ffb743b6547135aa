package routes

import (
	"restaurant_payments/internal/adapter/http/handlers"
	"restaurant_payments/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments = "/payments"
	PathInvoices = "/invoices"
)

func addPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler, auth, limit gin.HandlerFunc) {
	rg.GET("/payment-methods", h.PaymentMethods)
	rg.GET("/payment-gateways", h.PaymentGateways)
	rg.GET("/payment-fees", h.PaymentFees)

	payments := rg.Group(PathPayments + "/:gateway")
	{
		// Reached by providers and customer browsers, never with a bearer token.
		payments.POST("/callback", limit, h.Callback)
		payments.GET("/callback", limit, h.Callback)
		payments.GET("/success", limit, h.Success)
		payments.GET("/cancel", limit, h.Cancel)

		payments.POST("/intent", auth, middleware.ValidateJSON(middleware.IntentRequestSchema), h.CreateIntent)
		payments.GET("/verify/:transactionRef", auth, h.VerifyPayment)
	}

	invoices := rg.Group(PathInvoices, auth)
	{
		invoices.GET("/:id", h.GetInvoice)
	}
}
