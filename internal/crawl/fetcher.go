package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchResult is the outcome of fetching one URL.
type FetchResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a URL's body. The default implementation wraps
// net/http.Client; it is an interface so tests can inject a fixture
// without a live network.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// HTTPFetcher is the default Fetcher, backed by net/http.Client.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a Fetcher using http.DefaultClient if client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client}
}

// Fetch issues a GET request and reads the full body, bounded only by
// context deadline/cancellation.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("crawl: build request: %w", err)
	}
	req.Header.Set("User-Agent", "sitebookify/1.0 (+https://github.com/sitebookify/sitebookify)")

	resp, err := f.Client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("crawl: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{StatusCode: resp.StatusCode}, fmt.Errorf("crawl: read body %s: %w", url, err)
	}

	return FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
