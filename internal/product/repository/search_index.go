package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/product/domain"
)

// productIndexMapping is applied when the index is created by a rebuild.
const productIndexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "stock":       {"type": "integer"},
      "category":    {"type": "keyword"},
      "imageUrl":    {"type": "keyword", "index": false},
      "createdAt":   {"type": "date"}
    }
  }
}`

var searchFields = []string{"name", "description"}

// maxIndexedIDs matches the default index.max_result_window.
const maxIndexedIDs = 10000

// ProductIndex is the product view of the full-text index. Every failure wraps
// apperr.ErrDegraded.
type ProductIndex interface {
	EnsureIndex(ctx context.Context) error
	IndexProduct(ctx context.Context, p domain.Product) error
	RemoveProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	ProductIDs(ctx context.Context) ([]string, error)
}

// DocumentStore is implemented by search.Client.
type DocumentStore interface {
	EnsureIndex(ctx context.Context, mapping string) error
	IndexDocument(ctx context.Context, id string, doc any) error
	DeleteDocument(ctx context.Context, id string) error
	MultiMatch(ctx context.Context, query string, fields []string, size int) ([]json.RawMessage, error)
	DocumentIDs(ctx context.Context, size int) ([]string, error)
}

type elasticProductIndex struct {
	store DocumentStore
}

func NewElasticProductIndex(store DocumentStore) ProductIndex {
	return &elasticProductIndex{store: store}
}

func (i *elasticProductIndex) EnsureIndex(ctx context.Context) error {
	return i.store.EnsureIndex(ctx, productIndexMapping)
}

func (i *elasticProductIndex) IndexProduct(ctx context.Context, p domain.Product) error {
	return i.store.IndexDocument(ctx, p.ID, p)
}

func (i *elasticProductIndex) RemoveProduct(ctx context.Context, id string) error {
	return i.store.DeleteDocument(ctx, id)
}

func (i *elasticProductIndex) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	hits, err := i.store.MultiMatch(ctx, query, searchFields, defaultSearchLimit)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(hits))
	for _, raw := range hits {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: decode indexed product: %v", apperr.ErrDegraded, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (i *elasticProductIndex) ProductIDs(ctx context.Context) ([]string, error) {
	return i.store.DocumentIDs(ctx, maxIndexedIDs)
}
