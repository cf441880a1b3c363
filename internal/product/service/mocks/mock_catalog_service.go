package mocks

import (
	"context"

	pDomain "github.com/ridloal/mini-store/internal/product/domain"

	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context) ([]pDomain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id string) (*pDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) SearchProducts(ctx context.Context, query string) ([]pDomain.Product, error) {
	args := m.Called(ctx, query)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, in pDomain.ProductInput) (*pDomain.Product, error) {
	args := m.Called(ctx, in)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id string, in pDomain.ProductInput) (*pDomain.Product, error) {
	args := m.Called(ctx, id, in)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) Reindex(ctx context.Context) (pDomain.ReindexResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(pDomain.ReindexResult), args.Error(1)
}

func (m *MockCatalogService) ListExternalProducts(ctx context.Context) ([]pDomain.ExternalListing, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.ExternalListing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ImportExternalProduct(ctx context.Context, externalID int) (*pDomain.Product, error) {
	args := m.Called(ctx, externalID)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
