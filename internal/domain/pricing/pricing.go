// Package pricing turns an order total into a priced invoice breakdown.
package pricing

import (
	"fmt"

	"restaurant_payments/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Breakdown is the result of pricing a base amount. All amounts have 2 decimal places.
type Breakdown struct {
	Base          decimal.Decimal
	Tax           decimal.Decimal
	ServiceCharge decimal.Decimal
	Final         decimal.Decimal
}

// Calculate applies the policy rates to base. Tax and service charge are each
// rounded half-up to cents before being added to base.
func Calculate(base decimal.Decimal, policy entities.PricingPolicy) (Breakdown, error) {
	if !policy.IsValid() {
		return Breakdown{}, fmt.Errorf("%w: %d", entities.ErrInvalidPolicy, int(policy))
	}
	if !base.IsPositive() {
		return Breakdown{}, fmt.Errorf("%w: %s", entities.ErrInvalidAmount, base.String())
	}

	base = base.Round(2)
	tax := base.Mul(policy.TaxRate()).Round(2)
	service := base.Mul(policy.ServiceRate()).Round(2)

	return Breakdown{
		Base:          base,
		Tax:           tax,
		ServiceCharge: service,
		Final:         base.Add(tax).Add(service),
	}, nil
}
