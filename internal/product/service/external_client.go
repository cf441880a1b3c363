package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/product/domain"
)

var ErrExternalProductNotFound = apperr.New(apperr.ErrNotFound, "external product not found")

// ExternalCatalogClient reads the read-only external product feed.
type ExternalCatalogClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewExternalCatalogClient(baseURL string) *ExternalCatalogClient {
	return &ExternalCatalogClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *ExternalCatalogClient) ListProducts(ctx context.Context) ([]domain.ExternalProduct, error) {
	var items []domain.ExternalProduct
	found, err := c.get(ctx, c.BaseURL+"/products", &items)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.ExternalProduct{}, nil
	}
	return items, nil
}

// GetProduct returns ErrExternalProductNotFound for a 404 or an empty body; the feed answers
// unknown ids with 200 and no content.
func (c *ExternalCatalogClient) GetProduct(ctx context.Context, id int) (*domain.ExternalProduct, error) {
	var item *domain.ExternalProduct
	found, err := c.get(ctx, c.BaseURL+"/products/"+strconv.Itoa(id), &item)
	if err != nil {
		return nil, err
	}
	if !found || item == nil || item.ID == 0 {
		return nil, ErrExternalProductNotFound
	}
	return item, nil
}

func (c *ExternalCatalogClient) get(ctx context.Context, reqURL string, dest any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request to external catalog: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Warn("ExternalCatalog: request failed", zap.String("url", reqURL), zap.Error(err))
		return false, fmt.Errorf("%w: external catalog: %v", apperr.ErrDegraded, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn("ExternalCatalog: unexpected status", zap.String("url", reqURL), zap.Int("status", resp.StatusCode))
		return false, fmt.Errorf("%w: external catalog returned status %d", apperr.ErrDegraded, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("%w: decode external catalog response: %v", apperr.ErrDegraded, err)
	}
	return true, nil
}
