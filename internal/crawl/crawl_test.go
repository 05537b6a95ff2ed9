package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeIsInScope(t *testing.T) {
	start, err := url.Parse("http://example.com/docs/")
	require.NoError(t, err)
	scope := ScopeFromStartURL(start)

	in, err := url.Parse("http://example.com/docs/intro")
	require.NoError(t, err)
	require.True(t, scope.IsInScope(in))

	out, err := url.Parse("http://example.com/outside")
	require.NoError(t, err)
	require.False(t, scope.IsInScope(out))

	otherHost, err := url.Parse("http://evil.com/docs/intro")
	require.NoError(t, err)
	require.False(t, scope.IsInScope(otherHost))
}

func TestScopeWithoutTrailingSlashPrefix(t *testing.T) {
	start, err := url.Parse("http://example.com/docs")
	require.NoError(t, err)
	scope := Scope{Scheme: start.Scheme, Host: start.Hostname(), Port: start.Port(), PathPrefix: "/docs"}

	exact, _ := url.Parse("http://example.com/docs")
	require.True(t, scope.IsInScope(exact))

	nested, _ := url.Parse("http://example.com/docs/intro")
	require.True(t, scope.IsInScope(nested))

	prefixCollision, _ := url.Parse("http://example.com/docsish")
	require.False(t, scope.IsInScope(prefixCollision))
}

func TestNormalizeURLStripsQueryAndFragment(t *testing.T) {
	u, err := url.Parse("http://example.com/docs/intro?ref=1#top")
	require.NoError(t, err)
	n := NormalizeURL(u)
	require.False(t, strings.Contains(n, "?"))
	require.False(t, strings.Contains(n, "#"))
	require.Equal(t, "http://example.com/docs/intro", n)
}

func TestCanonicalURLCollapsesTrailingSlash(t *testing.T) {
	withSlash, _ := url.Parse("http://example.com/docs/")
	withoutSlash, _ := url.Parse("http://example.com/docs")
	require.Equal(t, CanonicalURL(withoutSlash), CanonicalURL(withSlash))

	root, _ := url.Parse("http://example.com/")
	require.Equal(t, "http://example.com/", CanonicalURL(root))
}

// TestDocsSiteCrawl grounds the "Docs site crawl" end-to-end scenario: a
// fixture server serving /docs/ (links to intro?ref=1#top, ./advanced,
// /outside), /docs/intro, /docs/advanced, /outside.
func TestDocsSiteCrawl(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!doctype html><html><body>
			<a href="intro?ref=1#top">intro</a>
			<a href="./advanced">advanced</a>
			<a href="/outside">outside</a>
		</body></html>`))
	})
	mux.HandleFunc("/docs/intro", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!doctype html><html><body>intro page</body></html>`))
	})
	mux.HandleFunc("/docs/advanced", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!doctype html><html><body>advanced page</body></html>`))
	})
	mux.HandleFunc("/outside", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!doctype html><html><body>outside page</body></html>`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	result, err := Run(context.Background(), Options{
		StartURL:    srv.URL + "/docs/",
		MaxPages:    10,
		MaxDepth:    4,
		Concurrency: 2,
		DelayMs:     0,
		RawDir:      dir,
		Fetcher:     NewHTTPFetcher(srv.Client()),
	})
	require.NoError(t, err)

	var urls []string
	for _, rec := range result.Records {
		require.False(t, strings.Contains(rec.NormalizedURL, "?"))
		require.False(t, strings.Contains(rec.NormalizedURL, "#"))
		urls = append(urls, rec.NormalizedURL)
	}
	sort.Strings(urls)

	require.Equal(t, []string{
		srv.URL + "/docs/",
		srv.URL + "/docs/advanced",
		srv.URL + "/docs/intro",
	}, urls)
}
