package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/product/domain"
	"github.com/ridloal/mini-store/internal/product/repository"
)

// ProductListCacheKey holds the cached result of ListProducts.
const ProductListCacheKey = "products_all"

// externalListingStock is the stock shown for feed items that have not been imported.
const externalListingStock = 15

var ErrEmptyQuery = apperr.New(apperr.ErrValidation, "search query must not be empty")

// Cache is the read cache in front of the product list. It is never authoritative.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type ExternalCatalog interface {
	ListProducts(ctx context.Context) ([]domain.ExternalProduct, error)
	GetProduct(ctx context.Context, id int) (*domain.ExternalProduct, error)
}

// CatalogService keeps Postgres authoritative and treats the cache and search index as
// best-effort copies updated after each successful write.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Reindex(ctx context.Context) (domain.ReindexResult, error)
	ListExternalProducts(ctx context.Context) ([]domain.ExternalListing, error)
	ImportExternalProduct(ctx context.Context, externalID int) (*domain.Product, error)
}

type catalogServiceImpl struct {
	repo        repository.ProductRepository
	index       repository.ProductIndex
	cache       Cache
	external    ExternalCatalog
	listTTL     time.Duration
	importStock int
}

func NewCatalogService(
	repo repository.ProductRepository,
	index repository.ProductIndex,
	cache Cache,
	external ExternalCatalog,
	cfg config.CatalogConfig,
) CatalogService {
	return &catalogServiceImpl{
		repo:        repo,
		index:       index,
		cache:       cache,
		external:    external,
		listTTL:     cfg.ListCacheTTL,
		importStock: cfg.ExternalImportStock,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	found, err := s.cache.Get(ctx, ProductListCacheKey, &cached)
	if err != nil {
		logger.Warn("ListProducts: cache read failed", zap.String("key", ProductListCacheKey), zap.Error(err))
	} else if found {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, ProductListCacheKey, products, s.listTTL); err != nil {
		logger.Warn("ListProducts: cache write failed", zap.String("key", ProductListCacheKey), zap.Error(err))
	}
	return products, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *catalogServiceImpl) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	products, err := s.index.SearchProducts(ctx, query)
	if err == nil {
		return products, nil
	}
	logger.Warn("SearchProducts: index unavailable, falling back to database", zap.String("query", query), zap.Error(err))
	return s.repo.SearchProducts(ctx, query)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &domain.Product{}
	in.Apply(p)
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("could not save product: %w", err)
	}

	s.indexProduct(ctx, *p)
	s.invalidateList(ctx)
	return p, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(p)
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	s.invalidateList(ctx)
	s.indexProduct(ctx, *p)
	return p, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidateList(ctx)
	if err := s.index.RemoveProduct(ctx, id); err != nil {
		logger.Warn("DeleteProduct: index removal failed", zap.String("product_id", id), zap.Error(err))
	}
	return nil
}

// Reindex pushes every stored product to the search index and removes documents whose product
// no longer exists. Individual document failures are counted, not returned.
func (s *catalogServiceImpl) Reindex(ctx context.Context) (domain.ReindexResult, error) {
	var result domain.ReindexResult
	if err := s.index.EnsureIndex(ctx); err != nil {
		return result, err
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return result, err
	}
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.index.IndexProduct(ctx, p); err != nil {
			logger.Warn("Reindex: product not indexed", zap.String("product_id", p.ID), zap.Error(err))
			result.Failed++
			continue
		}
		result.Indexed++
	}
	s.removeOrphans(ctx, products, &result)
	return result, nil
}

func (s *catalogServiceImpl) removeOrphans(ctx context.Context, products []domain.Product, result *domain.ReindexResult) {
	indexed, err := s.index.ProductIDs(ctx)
	if err != nil {
		logger.Warn("Reindex: could not list indexed products", zap.Error(err))
		return
	}
	stored := make(map[string]struct{}, len(products))
	for _, p := range products {
		stored[p.ID] = struct{}{}
	}
	for _, id := range indexed {
		if _, ok := stored[id]; ok {
			continue
		}
		if err := s.index.RemoveProduct(ctx, id); err != nil {
			logger.Warn("Reindex: orphaned document not removed", zap.String("product_id", id), zap.Error(err))
			result.Failed++
			continue
		}
		result.Removed++
	}
}

func (s *catalogServiceImpl) ListExternalProducts(ctx context.Context) ([]domain.ExternalListing, error) {
	items, err := s.external.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	listings := make([]domain.ExternalListing, 0, len(items))
	for _, item := range items {
		listings = append(listings, domain.ExternalListing{
			ExternalID:   item.ID,
			ProductInput: item.ToInput(externalListingStock),
		})
	}
	return listings, nil
}

func (s *catalogServiceImpl) ImportExternalProduct(ctx context.Context, externalID int) (*domain.Product, error) {
	if externalID <= 0 {
		return nil, ErrExternalProductNotFound
	}
	item, err := s.external.GetProduct(ctx, externalID)
	if err != nil {
		return nil, err
	}
	p, err := s.CreateProduct(ctx, item.ToInput(s.importStock))
	if err != nil {
		return nil, err
	}
	logger.Info("Imported external product", zap.Int("external_id", externalID), zap.String("product_id", p.ID))
	return p, nil
}

func (s *catalogServiceImpl) indexProduct(ctx context.Context, p domain.Product) {
	if err := s.index.IndexProduct(ctx, p); err != nil {
		logger.Warn("Search index write failed, document is stale until the next reindex",
			zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (s *catalogServiceImpl) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, ProductListCacheKey); err != nil {
		logger.Warn("Cache invalidation failed", zap.String("key", ProductListCacheKey), zap.Error(err))
	}
}

