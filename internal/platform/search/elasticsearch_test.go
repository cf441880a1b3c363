package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/config"
)

// fakeES is an in-memory stand-in for the handful of Elasticsearch endpoints the client calls.
type fakeES struct {
	mu        sync.Mutex
	docs      map[string]json.RawMessage
	order     []string
	indexed   bool
	lastQuery map[string]any
}

func newFakeES() *fakeES {
	return &fakeES{docs: map[string]json.RawMessage{}}
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && r.Method == http.MethodHead:
		if f.indexed {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case len(parts) == 1 && r.Method == http.MethodPut:
		f.indexed = true
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	case len(parts) == 3 && parts[1] == "_doc" && (r.Method == http.MethodPut || r.Method == http.MethodPost):
		body, _ := io.ReadAll(r.Body)
		if _, ok := f.docs[parts[2]]; !ok {
			f.order = append(f.order, parts[2])
		}
		f.docs[parts[2]] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodDelete:
		if _, ok := f.docs[parts[2]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.docs, parts[2])
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case len(parts) == 2 && parts[1] == "_search":
		f.lastQuery = nil
		_ = json.NewDecoder(r.Body).Decode(&f.lastQuery)
		term := f.queryTerm()
		var hits []map[string]any
		for _, id := range f.order {
			doc, ok := f.docs[id]
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(string(doc)), strings.ToLower(term)) {
				hit := map[string]any{"_id": id}
				if f.lastQuery["_source"] != false {
					hit["_source"] = doc
				}
				hits = append(hits, hit)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": hits}})
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (f *fakeES) queryTerm() string {
	q, _ := f.lastQuery["query"].(map[string]any)
	mm, _ := q["multi_match"].(map[string]any)
	term, _ := mm["query"].(string)
	return term
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(config.SearchConfig{URI: srv.URL, Index: "products"})
	require.NoError(t, err)
	return c
}

func TestClient_IndexSearchDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeES()
	c := newTestClient(t, fake)

	require.NoError(t, c.EnsureIndex(ctx, `{"mappings":{}}`))
	assert.True(t, fake.indexed)
	require.NoError(t, c.EnsureIndex(ctx, `{"mappings":{}}`))

	require.NoError(t, c.IndexDocument(ctx, "p1", map[string]string{"name": "Blue Pen", "description": "ink"}))
	require.NoError(t, c.IndexDocument(ctx, "p2", map[string]string{"name": "Notebook", "description": "paper"}))

	hits, err := c.MultiMatch(ctx, "pen", []string{"name", "description"}, 50)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.JSONEq(t, `{"name":"Blue Pen","description":"ink"}`, string(hits[0]))

	mm := fake.lastQuery["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.ElementsMatch(t, []any{"name", "description"}, mm["fields"])

	require.NoError(t, c.DeleteDocument(ctx, "p1"))
	require.NoError(t, c.DeleteDocument(ctx, "p1"), "deleting a missing document is not an error")

	hits, err = c.MultiMatch(ctx, "pen", []string{"name", "description"}, 50)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestClient_DocumentIDs(t *testing.T) {
	ctx := context.Background()
	fake := newFakeES()
	c := newTestClient(t, fake)

	require.NoError(t, c.IndexDocument(ctx, "p1", map[string]string{"name": "Blue Pen"}))
	require.NoError(t, c.IndexDocument(ctx, "p2", map[string]string{"name": "Notebook"}))

	ids, err := c.DocumentIDs(ctx, 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)

	q := fake.lastQuery["query"].(map[string]any)
	assert.Contains(t, q, "match_all")
	assert.Equal(t, false, fake.lastQuery["_source"])
}

func TestClient_ErrorsAreDegraded(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	}))

	err := c.IndexDocument(ctx, "p1", map[string]string{"name": "x"})
	assert.True(t, errors.Is(err, apperr.ErrDegraded))

	_, err = c.MultiMatch(ctx, "x", []string{"name"}, 10)
	assert.True(t, errors.Is(err, apperr.ErrDegraded))

	err = c.DeleteDocument(ctx, "p1")
	assert.True(t, errors.Is(err, apperr.ErrDegraded))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := NewClient(config.SearchConfig{URI: srv.URL, Index: "products"})
	require.NoError(t, err)

	_, err = c.MultiMatch(context.Background(), "pen", []string{"name"}, 10)
	assert.True(t, errors.Is(err, apperr.ErrDegraded))
}
