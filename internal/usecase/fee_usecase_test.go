package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"restaurant_payments/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func TestFeeUseCase_Calculate(t *testing.T) {
	uc, err := NewFeeUseCase(map[string]string{
		"Stripe": "amount * 0.029 + 0.30",
		"paymob": "amount * 0.0275 + 3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("evaluates the gateway formula", func(t *testing.T) {
		q, err := uc.Calculate(context.Background(), "stripe", decimal.RequireFromString("100"), "usd")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Fee.StringFixed(2) != "3.20" || q.NetAmount.StringFixed(2) != "96.80" || q.Currency != "USD" {
			t.Fatalf("unexpected quote: %+v", q)
		}
	})

	t.Run("rounds to cents", func(t *testing.T) {
		q, err := uc.Calculate(context.Background(), "paymob", decimal.RequireFromString("33.33"), "EGP")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 33.33 * 0.0275 + 3 = 3.916575
		if q.Fee.StringFixed(2) != "3.92" {
			t.Fatalf("expected fee 3.92, got %s", q.Fee.StringFixed(2))
		}
	})

	t.Run("half cents round up", func(t *testing.T) {
		cases := []struct {
			gateway, amount, fee string
		}{
			// float64 evaluates these to 33.214999999999996 and 4.8149999999999995
			{"stripe", "1135.00", "33.22"},
			{"paymob", "66.00", "4.82"},
		}
		for _, tc := range cases {
			q, err := uc.Calculate(context.Background(), tc.gateway, decimal.RequireFromString(tc.amount), "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Fee.StringFixed(2) != tc.fee {
				t.Fatalf("%s %s: expected fee %s, got %s", tc.gateway, tc.amount, tc.fee, q.Fee.StringFixed(2))
			}
		}
	})

	t.Run("unknown gateway lists the configured ones", func(t *testing.T) {
		_, err := uc.Calculate(context.Background(), "venmo", decimal.NewFromInt(10), "")
		if !errors.Is(err, entities.ErrUnsupportedGateway) || !strings.Contains(err.Error(), "paymob, stripe") {
			t.Fatalf("expected ErrUnsupportedGateway listing gateways, got %v", err)
		}
	})

	t.Run("non positive amount", func(t *testing.T) {
		_, err := uc.Calculate(context.Background(), "stripe", decimal.Zero, "")
		if !errors.Is(err, entities.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestNewFeeUseCase_InvalidFormula(t *testing.T) {
	if _, err := NewFeeUseCase(map[string]string{"stripe": "amount * (0.029"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
