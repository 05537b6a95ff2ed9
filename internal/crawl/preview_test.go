package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreviewUsesSitemapWhenAvailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/b</loc></url>
  <url><loc>https://example.com/c</loc></url>
</urlset>`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	result, err := Preview(context.Background(), srv.URL+"/docs/", NewHTTPFetcher(srv.Client()))
	require.NoError(t, err)
	require.Equal(t, "sitemap", result.Source)
	require.Equal(t, 3, result.EstimatedPages)
	require.Equal(t, 3, result.EstimatedChapters)
}

func TestPreviewFallsBackToCrawlEstimateWithoutSitemap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!doctype html><html></html>`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	result, err := Preview(context.Background(), srv.URL+"/docs/", NewHTTPFetcher(srv.Client()))
	require.NoError(t, err)
	require.Equal(t, "crawl", result.Source)
	require.Equal(t, 1, result.EstimatedPages)
}
