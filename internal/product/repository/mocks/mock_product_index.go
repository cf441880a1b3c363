package mocks

import (
	"context"

	pDomain "github.com/ridloal/mini-store/internal/product/domain"

	"github.com/stretchr/testify/mock"
)

type MockProductIndex struct {
	mock.Mock
}

func (m *MockProductIndex) EnsureIndex(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockProductIndex) IndexProduct(ctx context.Context, p pDomain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductIndex) RemoveProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductIndex) SearchProducts(ctx context.Context, query string) ([]pDomain.Product, error) {
	args := m.Called(ctx, query)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductIndex) ProductIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}
