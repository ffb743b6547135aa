package usecase

import (
	"context"
	"errors"
	"testing"

	"restaurant_payments/internal/domain/entities"
	mock_interfaces "restaurant_payments/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func TestOrderUseCase_CreateOrder(t *testing.T) {
	t.Run("sums items and stores a pending order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o entities.Order) (entities.Order, error) {
			return o, nil
		})

		uc := NewOrderUseCase(repo)
		o, err := uc.CreateOrder(context.Background(), "user-1", []entities.OrderItem{
			{Name: "Koshari", Price: decimal.RequireFromString("45.50"), Quantity: 2},
			{Name: "Tea", Price: decimal.RequireFromString("9.99"), Quantity: 1},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.ID == "" || o.UserID != "user-1" || o.Status != entities.OrderStatusPending {
			t.Fatalf("unexpected order: %+v", o)
		}
		if o.TotalAmount.StringFixed(2) != "100.99" {
			t.Fatalf("expected total 100.99, got %s", o.TotalAmount.StringFixed(2))
		}
	})

	t.Run("rejects bad items", func(t *testing.T) {
		bad := map[string][]entities.OrderItem{
			"no items":      nil,
			"no name":       {{Name: " ", Price: decimal.NewFromInt(1), Quantity: 1}},
			"zero price":    {{Name: "Tea", Price: decimal.Zero, Quantity: 1}},
			"zero quantity": {{Name: "Tea", Price: decimal.NewFromInt(1), Quantity: 0}},
		}
		uc := NewOrderUseCase(nil)
		for name, items := range bad {
			if _, err := uc.CreateOrder(context.Background(), "user-1", items); !errors.Is(err, ErrInvalidOrderItems) {
				t.Fatalf("%s: expected ErrInvalidOrderItems, got %v", name, err)
			}
		}
	})

	t.Run("requires a user", func(t *testing.T) {
		uc := NewOrderUseCase(nil)
		_, err := uc.CreateOrder(context.Background(), "", []entities.OrderItem{{Name: "Tea", Price: decimal.NewFromInt(1), Quantity: 1}})
		if !errors.Is(err, ErrOrderNotOwned) {
			t.Fatalf("expected ErrOrderNotOwned, got %v", err)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Order{}, errors.New("db down"))

		_, err := NewOrderUseCase(repo).CreateOrder(context.Background(), "user-1", []entities.OrderItem{{Name: "Tea", Price: decimal.NewFromInt(1), Quantity: 1}})
		if err == nil || err.Error() != "db down" {
			t.Fatalf("expected db down, got %v", err)
		}
	})
}

func TestOrderUseCase_GetOrder(t *testing.T) {
	tests := []struct {
		name    string
		stored  entities.Order
		userID  string
		wantErr error
	}{
		{name: "owner", stored: pendingOrder(), userID: "user-1"},
		{name: "missing", stored: entities.Order{}, userID: "user-1", wantErr: ErrOrderNotFound},
		{name: "other user", stored: pendingOrder(), userID: "user-2", wantErr: ErrOrderNotOwned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIOrderRepository(ctrl)
			repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(tc.stored, nil)

			o, err := NewOrderUseCase(repo).GetOrder(context.Background(), "order-1", tc.userID)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || o.ID != "order-1" {
				t.Fatalf("unexpected result %+v err=%v", o, err)
			}
		})
	}

	t.Run("empty id", func(t *testing.T) {
		if _, err := NewOrderUseCase(nil).GetOrder(context.Background(), "", "user-1"); !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})
}
