package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	request "restaurant_payments/internal/adapter/http/dto/request"
	response "restaurant_payments/internal/adapter/http/dto/response"
	"restaurant_payments/internal/adapter/http/middleware"
	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase"
	"restaurant_payments/internal/usecase/interfaces"
	"restaurant_payments/pkg"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentHandler serves the payment intent, callback and query routes.
type PaymentHandler struct {
	orchestrator        usecase.IPaymentOrchestratorUseCase
	callbacks           usecase.ICallbackProcessorUseCase
	fees                usecase.IFeeUseCase
	registry            interfaces.IGatewayRegistry
	frontendRedirectURL string
}

func NewPaymentHandler(
	orchestrator usecase.IPaymentOrchestratorUseCase,
	callbacks usecase.ICallbackProcessorUseCase,
	fees usecase.IFeeUseCase,
	registry interfaces.IGatewayRegistry,
	frontendRedirectURL string,
) *PaymentHandler {
	return &PaymentHandler{
		orchestrator:        orchestrator,
		callbacks:           callbacks,
		fees:                fees,
		registry:            registry,
		frontendRedirectURL: strings.TrimSpace(frontendRedirectURL),
	}
}

// CreateIntent godoc
// @Summary      Create a payment intent
// @Description  Prices the order, reserves a pending invoice and opens an intent with the gateway.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        gateway  path      string                       true  "Gateway id (paypal, stripe, paymob, mercadopago)"
// @Param        body     body      request.CreateIntentRequest  true  "Intent request"
// @Success      201      {object}  response.IntentResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Failure      502      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /payments/{gateway}/intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	gateway := c.Param("gateway")
	var payload request.CreateIntentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[payment][handler] intent invalid body gateway=%s err=%v", gateway, err)
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}

	userID := middleware.UserID(c)
	log.Printf("[payment][handler] intent start gateway=%s order_id=%s user_id=%s", gateway, payload.OrderID, userID)
	res, err := h.orchestrator.CreateIntent(c.Request.Context(), payload.ToCommand(gateway, userID))
	if err != nil {
		log.Printf("[payment][handler] intent failed gateway=%s order_id=%s err=%v", gateway, payload.OrderID, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] intent success invoice_id=%s ref=%s", res.Invoice.ID, res.Invoice.MaskedTransactionRef())

	c.JSON(http.StatusCreated, response.FromIntent(res))
}

// Callback godoc
// @Summary      Gateway callback
// @Description  POST is a server-to-server webhook, GET a browser return. Unknown invoices are acknowledged and ignored.
// @Tags         callbacks
// @Produce      json
// @Param        gateway  path      string  true  "Gateway id"
// @Success      200      {object}  response.CallbackResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /payments/{gateway}/callback [post]
// @Router       /payments/{gateway}/callback [get]
func (h *PaymentHandler) Callback(c *gin.Context) {
	kind := entities.CallbackReturn
	if c.Request.Method == http.MethodPost {
		kind = entities.CallbackWebhook
	}
	req, err := readCallback(c, kind)
	if err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}

	out, err := h.callbacks.Handle(c.Request.Context(), c.Param("gateway"), req)
	if err != nil {
		appErr := mapCallbackError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromCallback(out))
}

// Success godoc
// @Summary      Success redirect
// @Tags         callbacks
// @Produce      json
// @Param        gateway     path   string  true  "Gateway id"
// @Param        invoice_id  query  string  false "Invoice id"
// @Param        sig         query  string  false "Redirect signature"
// @Success      200  {object}  response.CallbackResponse
// @Success      302
// @Failure      400  {object}  pkg.HTTPError
// @Router       /payments/{gateway}/success [get]
func (h *PaymentHandler) Success(c *gin.Context) {
	h.redirect(c, entities.CallbackReturn)
}

// Cancel godoc
// @Summary      Cancel redirect
// @Tags         callbacks
// @Produce      json
// @Param        gateway     path   string  true  "Gateway id"
// @Param        invoice_id  query  string  true  "Invoice id"
// @Param        sig         query  string  true  "Redirect signature"
// @Success      200  {object}  response.CallbackResponse
// @Success      302
// @Failure      400  {object}  pkg.HTTPError
// @Router       /payments/{gateway}/cancel [get]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	h.redirect(c, entities.CallbackCancel)
}

// redirect handles the browser legs. With a frontend configured the customer
// is sent there with the outcome; otherwise the outcome is returned as JSON.
func (h *PaymentHandler) redirect(c *gin.Context, kind entities.CallbackKind) {
	req, err := readCallback(c, kind)
	if err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}
	out, err := h.callbacks.Handle(c.Request.Context(), c.Param("gateway"), req)

	if h.frontendRedirectURL != "" {
		invoiceID := out.InvoiceID
		if invoiceID == "" {
			invoiceID = c.Query("invoice_id")
		}
		status := string(out.Status)
		if err != nil {
			status = "error"
		}
		c.Redirect(http.StatusFound, frontendURL(h.frontendRedirectURL, invoiceID, status))
		return
	}
	if err != nil {
		appErr := mapCallbackError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromCallback(out))
}

// VerifyPayment godoc
// @Summary      Pull the payment status from the gateway
// @Tags         payments
// @Produce      json
// @Param        gateway         path      string  true  "Gateway id"
// @Param        transactionRef  path      string  true  "Gateway transaction reference"
// @Success      200             {object}  response.VerifyResponse
// @Failure      404             {object}  pkg.HTTPError
// @Failure      503             {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /payments/{gateway}/verify/{transactionRef} [get]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	cmd := usecase.VerifyPaymentCommand{
		Gateway:        c.Param("gateway"),
		TransactionRef: c.Param("transactionRef"),
		UserID:         middleware.UserID(c),
		Admin:          middleware.IsAdmin(c),
	}
	out, err := h.orchestrator.VerifyPayment(c.Request.Context(), cmd)
	if err != nil {
		log.Printf("[payment][handler] verify failed gateway=%s ref=%s err=%v", cmd.Gateway, entities.MaskReference(cmd.TransactionRef), err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromVerify(out))
}

// GetInvoice godoc
// @Summary      Get an invoice
// @Description  The raw transaction reference and the audit trail are only shown to the order owner.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  response.InvoiceResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /invoices/{id} [get]
func (h *PaymentHandler) GetInvoice(c *gin.Context) {
	lookup, err := h.orchestrator.GetInvoice(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(lookup.Invoice, lookup.Owned))
}

// GetOrderPaymentStatus godoc
// @Summary      Order payment status
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  response.OrderPaymentStatusResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /orders/{id}/payment-status [get]
func (h *PaymentHandler) GetOrderPaymentStatus(c *gin.Context) {
	st, err := h.orchestrator.GetOrderPaymentStatus(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromOrderPaymentStatus(st))
}

// PaymentMethods godoc
// @Summary      Pricing policies
// @Tags         payments
// @Produce      json
// @Success      200  {array}  response.PaymentMethodResponse
// @Router       /payment-methods [get]
func (h *PaymentHandler) PaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromPricingPolicies(entities.PricingPolicies))
}

// PaymentGateways godoc
// @Summary      Registered gateways
// @Tags         payments
// @Produce      json
// @Success      200  {array}  entities.GatewayInfo
// @Router       /payment-gateways [get]
func (h *PaymentHandler) PaymentGateways(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Describe())
}

// PaymentFees godoc
// @Summary      Estimate the gateway processing fee
// @Tags         payments
// @Produce      json
// @Param        gateway   query     string  true   "Gateway id"
// @Param        amount    query     string  true   "Amount"
// @Param        currency  query     string  false  "Currency"
// @Success      200       {object}  response.FeeResponse
// @Failure      400       {object}  pkg.HTTPError
// @Router       /payment-fees [get]
func (h *PaymentHandler) PaymentFees(c *gin.Context) {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.Query("amount")))
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_AMOUNT", "amount must be a decimal number", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	quote, err := h.fees.Calculate(c.Request.Context(), c.Query("gateway"), amount, c.Query("currency"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromFeeQuote(quote))
}

func readCallback(c *gin.Context, kind entities.CallbackKind) (entities.CallbackRequest, error) {
	body, err := c.GetRawData()
	if err != nil {
		log.Printf("[payment][handler] callback body unreadable gateway=%s err=%v", c.Param("gateway"), err)
		return entities.CallbackRequest{}, err
	}
	return entities.CallbackRequest{
		Kind:    kind,
		Query:   c.Request.URL.Query(),
		Headers: c.Request.Header.Clone(),
		Body:    body,
	}, nil
}

func frontendURL(base, invoiceID, status string) string {
	q := url.Values{}
	if invoiceID != "" {
		q.Set("invoice_id", invoiceID)
	}
	if status != "" {
		q.Set("status", status)
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
