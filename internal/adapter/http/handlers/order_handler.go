package handlers

import (
	"log"
	"net/http"

	request "restaurant_payments/internal/adapter/http/dto/request"
	response "restaurant_payments/internal/adapter/http/dto/response"
	"restaurant_payments/internal/adapter/http/middleware"
	"restaurant_payments/internal/usecase"

	"github.com/gin-gonic/gin"
)

// OrderHandler registers orders coming from the order-taking flow.
type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder godoc
// @Summary      Register an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      request.CreateOrderRequest  true  "Order items"
// @Success      201   {object}  response.OrderResponse
// @Failure      400   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}

	o, err := h.usecase.CreateOrder(c.Request.Context(), middleware.UserID(c), payload.ToItems())
	if err != nil {
		log.Printf("[payment][handler] create order failed err=%v", err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromOrder(o))
}

// GetOrder godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  response.OrderResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.usecase.GetOrder(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}
