package entities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PricingPolicy selects how tax and service charge are applied to an order total.
// Chosen when an invoice is created and never changed afterwards.
type PricingPolicy int

const (
	PricingFullService PricingPolicy = 1
	PricingServiceOnly PricingPolicy = 2
)

// PricingPolicies lists the known policies in display order.
var PricingPolicies = []PricingPolicy{PricingFullService, PricingServiceOnly}

func (p PricingPolicy) IsValid() bool {
	return p == PricingFullService || p == PricingServiceOnly
}

func (p PricingPolicy) Name() string {
	switch p {
	case PricingFullService:
		return "Full Service Package"
	case PricingServiceOnly:
		return "Service Only"
	}
	return "Unknown"
}

func (p PricingPolicy) Description() string {
	switch p {
	case PricingFullService:
		return "14% taxes + 20% service charge"
	case PricingServiceOnly:
		return "15% service charge only"
	}
	return ""
}

// TaxRate and ServiceRate are zero for unknown policies; callers validate first.
func (p PricingPolicy) TaxRate() decimal.Decimal {
	if p == PricingFullService {
		return decimal.RequireFromString("0.14")
	}
	return decimal.Zero
}

func (p PricingPolicy) ServiceRate() decimal.Decimal {
	switch p {
	case PricingFullService:
		return decimal.RequireFromString("0.20")
	case PricingServiceOnly:
		return decimal.RequireFromString("0.15")
	}
	return decimal.Zero
}

// ParsePricingPolicy accepts the numeric id or the snake_case name.
func ParsePricingPolicy(v string) (PricingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "full_service":
		return PricingFullService, nil
	case "service_only":
		return PricingServiceOnly, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || !PricingPolicy(n).IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, v)
	}
	return PricingPolicy(n), nil
}
