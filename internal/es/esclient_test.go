package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kamishop/internal/models"
)

type fakeES struct {
	paths  []string
	bodies []string
	search string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, f.search)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"result":"created","version":{"number":"9.0.0"}}`)
	}
}

func newIndex(t *testing.T, f *fakeES) *Index {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &Index{Client: client, Name: "products"}
}

func TestIndexProduct(t *testing.T) {
	f := &fakeES{}
	ix := newIndex(t, f)

	err := ix.IndexProduct(context.Background(), models.Product{ID: 7, Name: "Steam", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "PUT /products/_doc/7", f.paths[len(f.paths)-1])

	var doc productDoc
	require.NoError(t, json.Unmarshal([]byte(f.bodies[len(f.bodies)-1]), &doc))
	require.Equal(t, "Steam", doc.Name)
}

func TestDeleteProduct_MissingIsFine(t *testing.T) {
	ix := newIndex(t, &fakeES{})
	require.NoError(t, ix.DeleteProduct(context.Background(), 9))
}

func TestSearchProducts(t *testing.T) {
	f := &fakeES{search: `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":3}},{"_source":{"id":1}}]}}`}
	ix := newIndex(t, f)

	total, ids, err := ix.SearchProducts(context.Background(), "steam", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, []uint{3, 1}, ids)
	require.Contains(t, f.bodies[len(f.bodies)-1], "multi_match")
}
