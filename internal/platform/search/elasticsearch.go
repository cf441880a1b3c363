package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/config"
)

// Client is a thin document store over one Elasticsearch index. All failures, including
// non-2xx responses, are reported as apperr.ErrDegraded.
type Client struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg config.SearchConfig) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{cfg.URI},
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{es: es, index: cfg.Index}, nil
}

func (c *Client) Index() string { return c.index }

// EnsureIndex creates the index with the given mapping body when it does not exist yet.
func (c *Client) EnsureIndex(ctx context.Context, mapping string) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return degraded("check index", err)
	}
	drain(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return degraded("check index", fmt.Errorf("status %d", res.StatusCode))
	}

	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return degraded("create index", err)
	}
	defer drain(res)
	if res.IsError() {
		return degraded("create index", responseError(res))
	}
	return nil
}

// IndexDocument creates or replaces the document with the given id.
func (c *Client) IndexDocument(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}
	res, err := c.es.Index(c.index, bytes.NewReader(body),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(id),
	)
	if err != nil {
		return degraded("index document "+id, err)
	}
	defer drain(res)
	if res.IsError() {
		return degraded("index document "+id, responseError(res))
	}
	return nil
}

// DeleteDocument removes the document with the given id. A missing document is not an error.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	res, err := c.es.Delete(c.index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		return degraded("delete document "+id, err)
	}
	defer drain(res)
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return degraded("delete document "+id, responseError(res))
	}
	return nil
}

// MultiMatch runs a multi_match query over fields and returns the _source of every hit in
// score order.
func (c *Client) MultiMatch(ctx context.Context, query string, fields []string, size int) ([]json.RawMessage, error) {
	hits, err := c.search(ctx, map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": fields,
			},
		},
	}, size)
	if err != nil {
		return nil, err
	}
	sources := make([]json.RawMessage, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, h.Source)
	}
	return sources, nil
}

// DocumentIDs returns the ids of up to size documents in the index.
func (c *Client) DocumentIDs(ctx context.Context, size int) ([]string, error) {
	hits, err := c.search(ctx, map[string]any{
		"query":   map[string]any{"match_all": map[string]any{}},
		"_source": false,
	}, size)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

type searchHit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

func (c *Client) search(ctx context.Context, body map[string]any, size int) ([]searchHit, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
		c.es.Search.WithSize(size),
	)
	if err != nil {
		return nil, degraded("search", err)
	}
	defer drain(res)
	if res.IsError() {
		return nil, degraded("search", responseError(res))
	}

	var parsed struct {
		Hits struct {
			Hits []searchHit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, degraded("decode search response", err)
	}
	return parsed.Hits.Hits, nil
}

func degraded(op string, err error) error {
	return fmt.Errorf("%w: elasticsearch %s: %v", apperr.ErrDegraded, op, err)
}

func responseError(res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}

func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
