package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"restaurant_payments/internal/domain/entities"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
)

type FeeQuote struct {
	Gateway   string          `json:"gateway"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency,omitempty"`
	Fee       decimal.Decimal `json:"fee"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// IFeeUseCase estimates gateway processing fees.
type IFeeUseCase interface {
	Calculate(ctx context.Context, gateway string, amount decimal.Decimal, currency string) (FeeQuote, error)
}

// FeeUseCase evaluates one configured expression per gateway. Expressions
// see a single parameter, amount.
type FeeUseCase struct {
	formulas map[string]*govaluate.EvaluableExpression
}

var _ IFeeUseCase = (*FeeUseCase)(nil)

func NewFeeUseCase(fees map[string]string) (*FeeUseCase, error) {
	formulas := make(map[string]*govaluate.EvaluableExpression, len(fees))
	for gateway, formula := range fees {
		expr, err := govaluate.NewEvaluableExpression(formula)
		if err != nil {
			return nil, fmt.Errorf("fee formula for %s: %w", gateway, err)
		}
		formulas[strings.ToLower(gateway)] = expr
	}
	return &FeeUseCase{formulas: formulas}, nil
}

func (u *FeeUseCase) Calculate(_ context.Context, gateway string, amount decimal.Decimal, currency string) (FeeQuote, error) {
	gateway = strings.ToLower(strings.TrimSpace(gateway))
	if !amount.IsPositive() {
		return FeeQuote{}, fmt.Errorf("%w: %s", entities.ErrInvalidAmount, amount.String())
	}
	expr, ok := u.formulas[gateway]
	if !ok {
		return FeeQuote{}, fmt.Errorf("%w: %q (supported: %s)", entities.ErrUnsupportedGateway, gateway, strings.Join(u.gateways(), ", "))
	}

	result, err := expr.Evaluate(map[string]interface{}{"amount": amount.InexactFloat64()})
	if err != nil {
		return FeeQuote{}, fmt.Errorf("evaluate fee for %s: %w", gateway, err)
	}
	value, ok := result.(float64)
	if !ok {
		return FeeQuote{}, fmt.Errorf("fee formula for %s returned %T", gateway, result)
	}

	// cut float64 noise at six places so exact half cents round up
	fee := decimal.NewFromFloatWithExponent(value, -6).Round(2)
	amount = amount.Round(2)
	return FeeQuote{
		Gateway:   gateway,
		Amount:    amount,
		Currency:  strings.ToUpper(currency),
		Fee:       fee,
		NetAmount: amount.Sub(fee),
	}, nil
}

func (u *FeeUseCase) gateways() []string {
	out := make([]string, 0, len(u.formulas))
	for name := range u.formulas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
