package request

import (
	"strings"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase"
)

type CustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// GatewayDataRequest carries the provider specific part of an intent.
type GatewayDataRequest struct {
	Customer    CustomerRequest `json:"customer"`
	Method      string          `json:"method"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
}

// CreateIntentRequest is the body of POST /payments/{gateway}/intent.
type CreateIntentRequest struct {
	OrderID       string             `json:"order_id" binding:"required"`
	PricingPolicy int                `json:"pricing_policy" binding:"required"`
	GatewayData   GatewayDataRequest `json:"gateway_data"`
}

func (r CreateIntentRequest) ToCommand(gateway, userID string) usecase.CreateIntentCommand {
	method := entities.PaymentMethod(strings.ToLower(strings.TrimSpace(r.GatewayData.Method)))
	if method == "" {
		method = entities.PaymentMethodCard
	}
	return usecase.CreateIntentCommand{
		OrderID: strings.TrimSpace(r.OrderID),
		UserID:  userID,
		Gateway: gateway,
		Policy:  entities.PricingPolicy(r.PricingPolicy),
		GatewayData: usecase.GatewayData{
			Customer: entities.Customer{
				FirstName: strings.TrimSpace(r.GatewayData.Customer.FirstName),
				LastName:  strings.TrimSpace(r.GatewayData.Customer.LastName),
				Email:     strings.TrimSpace(r.GatewayData.Customer.Email),
				Phone:     strings.TrimSpace(r.GatewayData.Customer.Phone),
			},
			Method:      method,
			Currency:    strings.ToUpper(strings.TrimSpace(r.GatewayData.Currency)),
			Description: strings.TrimSpace(r.GatewayData.Description),
		},
	}
}
