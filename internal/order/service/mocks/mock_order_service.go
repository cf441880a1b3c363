package mocks

import (
	"context"

	oDomain "github.com/ridloal/mini-store/internal/order/domain"
	"github.com/ridloal/mini-store/internal/platform/auth"

	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID string, req oDomain.CreateOrderRequest) (string, error) {
	args := m.Called(ctx, userID, req)
	return args.String(0), args.Error(1)
}

func (m *MockOrderService) GetMyOrders(ctx context.Context, userID string) ([]oDomain.Order, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]oDomain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID, callerUserID string) error {
	return m.Called(ctx, orderID, callerUserID).Error(0)
}

func (m *MockOrderService) ListOrders(ctx context.Context, search string, callerRole auth.Role) ([]oDomain.Order, error) {
	args := m.Called(ctx, search, callerRole)
	if res := args.Get(0); res != nil {
		return res.([]oDomain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID, newStatus string, callerRole auth.Role) (oDomain.OrderStatus, error) {
	args := m.Called(ctx, orderID, newStatus, callerRole)
	return args.Get(0).(oDomain.OrderStatus), args.Error(1)
}

func (m *MockOrderService) SoftDeleteOrder(ctx context.Context, orderID string, callerRole auth.Role) error {
	return m.Called(ctx, orderID, callerRole).Error(0)
}
