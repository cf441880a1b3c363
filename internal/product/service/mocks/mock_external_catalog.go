package mocks

import (
	"context"

	pDomain "github.com/ridloal/mini-store/internal/product/domain"

	"github.com/stretchr/testify/mock"
)

type MockExternalCatalog struct {
	mock.Mock
}

func (m *MockExternalCatalog) ListProducts(ctx context.Context) ([]pDomain.ExternalProduct, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.ExternalProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockExternalCatalog) GetProduct(ctx context.Context, id int) (*pDomain.ExternalProduct, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.ExternalProduct), args.Error(1)
	}
	return nil, args.Error(1)
}
