package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidOrderItems = errors.New("invalid order items")

// IOrderUseCase registers orders for the payment flow.
//
// Orders enter in status pending; only the orchestrator changes status afterwards.

type IOrderUseCase interface {
	CreateOrder(ctx context.Context, userID string, items []entities.OrderItem) (entities.Order, error)
	GetOrder(ctx context.Context, id, userID string) (entities.Order, error)
}

type OrderUseCase struct {
	repo interfaces.IOrderRepository
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(repo interfaces.IOrderRepository) *OrderUseCase {
	return &OrderUseCase{repo: repo}
}

func (u *OrderUseCase) CreateOrder(ctx context.Context, userID string, items []entities.OrderItem) (entities.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.Order{}, ErrOrderNotOwned
	}
	total, err := orderTotal(items)
	if err != nil {
		return entities.Order{}, err
	}

	now := time.Now().UTC()
	o := entities.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		TotalAmount: total,
		Status:      entities.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := u.repo.Create(ctx, o)
	if err != nil {
		return entities.Order{}, err
	}
	log.Printf("[payment][orders] order created order_id=%s items=%d total=%s", created.ID, len(items), total.StringFixed(2))
	return created, nil
}

func (u *OrderUseCase) GetOrder(ctx context.Context, id, userID string) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	// other users' orders look missing
	if o.UserID != userID {
		return entities.Order{}, ErrOrderNotOwned
	}
	return o, nil
}

// orderTotal sums price * quantity, rounded to cents.
func orderTotal(items []entities.OrderItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no items", ErrInvalidOrderItems)
	}
	total := decimal.Zero
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return decimal.Zero, fmt.Errorf("%w: item %d has no name", ErrInvalidOrderItems, i)
		}
		if !it.Price.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: item %d price must be positive", ErrInvalidOrderItems, i)
		}
		if it.Quantity <= 0 {
			return decimal.Zero, fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidOrderItems, i)
		}
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2), nil
}
