package mocks

import (
	"context"

	oDomain "github.com/ridloal/mini-store/internal/order/domain"
	"github.com/ridloal/mini-store/internal/platform/database"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (database.DBTX, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(database.DBTX), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrderWithItems(ctx context.Context, order *oDomain.Order, reserveStock bool) error {
	return m.Called(ctx, order, reserveStock).Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id string, includeDeleted bool) (*oDomain.Order, error) {
	args := m.Called(ctx, id, includeDeleted)
	if res := args.Get(0); res != nil {
		return res.(*oDomain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) LockOrder(ctx context.Context, tx database.DBTX, id string) (*oDomain.Order, error) {
	args := m.Called(ctx, tx, id)
	if res := args.Get(0); res != nil {
		return res.(*oDomain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByUserID(ctx context.Context, userID string, includeDeleted bool) ([]oDomain.Order, error) {
	args := m.Called(ctx, userID, includeDeleted)
	if res := args.Get(0); res != nil {
		return res.([]oDomain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, filter oDomain.OrderFilter) ([]oDomain.Order, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]oDomain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, dbops database.Querier, id string, status oDomain.OrderStatus) error {
	return m.Called(ctx, dbops, id, status).Error(0)
}

func (m *MockOrderRepository) MarkOrderDeleted(ctx context.Context, dbops database.Querier, id string) error {
	return m.Called(ctx, dbops, id).Error(0)
}
