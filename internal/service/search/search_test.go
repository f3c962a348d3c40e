package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"
)

func newFakeES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestSearchDecodesHits(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/items/_search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": 1},
				"hits": []map[string]any{
					{"_source": map[string]any{
						"id":       7,
						"shop_id":  1,
						"name":     "coffee beans",
						"price":    "10.00",
						"category": "grocery",
					}},
				},
			},
		})
	})

	total, items, err := Search(context.Background(), client, "items", "coffee", 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	require.EqualValues(t, 7, items[0].ID)
	require.Equal(t, "coffee beans", items[0].Name)
	require.Equal(t, "grocery", items[0].Category)
}

func TestSearchEmptyResult(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": 0},
				"hits":  []map[string]any{},
			},
		})
	})

	total, items, err := Search(context.Background(), client, "items", "nothing", 0, 20)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)
}

func TestSearchErrorStatus(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := Search(context.Background(), client, "items", "coffee", 0, 20)
	require.Error(t, err)
}
