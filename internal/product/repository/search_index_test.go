package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/product/domain"
)

type mockDocumentStore struct {
	mock.Mock
}

func (m *mockDocumentStore) EnsureIndex(ctx context.Context, mapping string) error {
	return m.Called(ctx, mapping).Error(0)
}

func (m *mockDocumentStore) IndexDocument(ctx context.Context, id string, doc any) error {
	return m.Called(ctx, id, doc).Error(0)
}

func (m *mockDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDocumentStore) MultiMatch(ctx context.Context, query string, fields []string, size int) ([]json.RawMessage, error) {
	args := m.Called(ctx, query, fields, size)
	if res := args.Get(0); res != nil {
		return res.([]json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDocumentStore) DocumentIDs(ctx context.Context, size int) ([]string, error) {
	args := m.Called(ctx, size)
	if res := args.Get(0); res != nil {
		return res.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestElasticProductIndex(t *testing.T) {
	ctx := context.Background()
	store := new(mockDocumentStore)
	index := NewElasticProductIndex(store)

	pen := domain.Product{
		ID:        "8c3c5f8e-7c8e-4f57-a7a9-2b0a8a1b6d01",
		Name:      "Pen",
		Price:     decimal.RequireFromString("2.00"),
		Stock:     10,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("index uses the product id as document id", func(t *testing.T) {
		store.On("IndexDocument", ctx, pen.ID, pen).Return(nil).Once()
		require.NoError(t, index.IndexProduct(ctx, pen))
	})

	t.Run("search decodes sources", func(t *testing.T) {
		raw, err := json.Marshal(pen)
		require.NoError(t, err)
		store.On("MultiMatch", ctx, "pen", []string{"name", "description"}, defaultSearchLimit).
			Return([]json.RawMessage{raw}, nil).Once()

		got, err := index.SearchProducts(ctx, "pen")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pen.ID, got[0].ID)
		assert.True(t, pen.Price.Equal(got[0].Price))
		assert.True(t, pen.CreatedAt.Equal(got[0].CreatedAt))
	})

	t.Run("product ids read up to the result window", func(t *testing.T) {
		store.On("DocumentIDs", ctx, maxIndexedIDs).Return([]string{pen.ID}, nil).Once()
		ids, err := index.ProductIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{pen.ID}, ids)
	})

	t.Run("search propagates degraded errors", func(t *testing.T) {
		store.On("MultiMatch", ctx, "pen", mock.Anything, mock.Anything).
			Return(nil, apperr.ErrDegraded).Once()
		_, err := index.SearchProducts(ctx, "pen")
		assert.True(t, errors.Is(err, apperr.ErrDegraded))
	})

	t.Run("undecodable hit is degraded", func(t *testing.T) {
		store.On("MultiMatch", ctx, "x", mock.Anything, mock.Anything).
			Return([]json.RawMessage{json.RawMessage(`{"price":"abc"}`)}, nil).Once()
		_, err := index.SearchProducts(ctx, "x")
		assert.True(t, errors.Is(err, apperr.ErrDegraded))
	})

	t.Run("ensure index sends the mapping", func(t *testing.T) {
		store.On("EnsureIndex", ctx, productIndexMapping).Return(nil).Once()
		require.NoError(t, index.EnsureIndex(ctx))
	})

	store.AssertExpectations(t)
}
