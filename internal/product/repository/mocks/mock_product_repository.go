package mocks

import (
	"context"

	pDomain "github.com/ridloal/mini-store/internal/product/domain"

	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]pDomain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id string) (*pDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, p *pDomain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, p *pDomain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) SearchProducts(ctx context.Context, query string) ([]pDomain.Product, error) {
	args := m.Called(ctx, query)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
