package pricing

import (
	"errors"
	"testing"

	"restaurant_payments/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		policy  entities.PricingPolicy
		tax     string
		service string
		final   string
	}{
		{"full service 100", "100.00", entities.PricingFullService, "14.00", "20.00", "134.00"},
		{"service only 100", "100.00", entities.PricingServiceOnly, "0.00", "15.00", "115.00"},
		{"half up tax", "10.25", entities.PricingFullService, "1.44", "2.05", "13.74"},
		{"half up service", "0.25", entities.PricingServiceOnly, "0.00", "0.04", "0.29"},
		{"components rounded independently", "0.04", entities.PricingFullService, "0.01", "0.01", "0.06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(decimal.RequireFromString(tt.base), tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.tax, got.Tax.StringFixed(2))
			assert.Equal(t, tt.service, got.ServiceCharge.StringFixed(2))
			assert.Equal(t, tt.final, got.Final.StringFixed(2))
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	a, err := Calculate(decimal.RequireFromString("57.33"), entities.PricingFullService)
	require.NoError(t, err)
	b, err := Calculate(decimal.RequireFromString("57.33"), entities.PricingFullService)
	require.NoError(t, err)
	assert.True(t, a.Final.Equal(b.Final))
	assert.True(t, a.Tax.Equal(b.Tax))
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(decimal.NewFromInt(10), entities.PricingPolicy(7))
	assert.True(t, errors.Is(err, entities.ErrInvalidPolicy))

	_, err = Calculate(decimal.Zero, entities.PricingFullService)
	assert.True(t, errors.Is(err, entities.ErrInvalidAmount))

	_, err = Calculate(decimal.NewFromInt(-5), entities.PricingServiceOnly)
	assert.True(t, errors.Is(err, entities.ErrInvalidAmount))
}
