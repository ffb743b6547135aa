package handlers

import (
	"errors"
	"net/http"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase"
	"restaurant_payments/pkg"
)

var errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrUnsupportedGateway):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_GATEWAY", err.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrAlreadyPaid):
		return pkg.NewDomainErrorSimple("ALREADY_PAID", "Order is already paid", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidPolicy):
		return pkg.NewDomainErrorSimple("INVALID_POLICY", "Invalid pricing policy", http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnsupportedCurrency):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_CURRENCY", err.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidAmount):
		return pkg.NewDomainErrorSimple("INVALID_AMOUNT", "Amount must be greater than zero", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidOrderID), errors.Is(err, usecase.ErrInvalidOrderItems), errors.Is(err, usecase.ErrInvalidCallback):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound), errors.Is(err, usecase.ErrOrderNotOwned):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrOrderLocked):
		return pkg.NewDomainErrorSimple("ORDER_LOCKED", "Order is being processed by another request, retry shortly", http.StatusConflict)
	case errors.Is(err, usecase.ErrIntentSuperseded):
		return pkg.NewDomainErrorSimple("INTENT_SUPERSEDED", "A newer payment intent replaced this one", http.StatusConflict)
	case errors.Is(err, entities.ErrOrderNotPayable):
		return pkg.NewDomainErrorSimple("ORDER_NOT_PAYABLE", "Order is no longer payable", http.StatusConflict)
	case errors.Is(err, entities.ErrDuplicateIntent):
		return pkg.NewDomainErrorSimple("DUPLICATE_INTENT", "A payment intent already exists for this invoice", http.StatusConflict)
	case errors.Is(err, entities.ErrAmountMismatch):
		return pkg.NewDomainErrorSimple("AMOUNT_MISMATCH", "Paid amount does not match the invoice", http.StatusConflict)
	case errors.Is(err, entities.ErrPaymentRejected):
		return pkg.NewDomainErrorSimple("PAYMENT_REJECTED", "Payment rejected by the gateway", http.StatusBadGateway)
	case errors.Is(err, entities.ErrGatewayProtocolError):
		return pkg.NewDomainErrorSimple("GATEWAY_PROTOCOL_ERROR", "Unexpected response from the payment gateway", http.StatusBadGateway)
	case errors.Is(err, entities.ErrGatewayUnavailable):
		return pkg.NewDomainErrorSimple("GATEWAY_UNAVAILABLE", "Payment gateway unavailable, try again later", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// mapCallbackError answers the provider, not the user. 400 stops provider
// retries; 503 asks for one.
func mapCallbackError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrGatewayUnavailable):
		return pkg.NewDomainErrorSimple("GATEWAY_UNAVAILABLE", "Payment gateway unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, entities.ErrInvalidSignature):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Callback verification failed", http.StatusBadRequest)
	case errors.Is(err, entities.ErrAmountMismatch):
		return pkg.NewDomainErrorSimple("AMOUNT_MISMATCH", "Callback amount does not match the invoice", http.StatusBadRequest)
	case errors.Is(err, entities.ErrCaptureFailed):
		return pkg.NewDomainErrorSimple("CAPTURE_FAILED", "Payment capture failed", http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnsupportedGateway),
		errors.Is(err, usecase.ErrInvalidCallback),
		errors.Is(err, entities.ErrGatewayProtocolError),
		errors.Is(err, entities.ErrPaymentRejected):
		return pkg.NewDomainErrorSimple("INVALID_CALLBACK", "Callback could not be processed", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
