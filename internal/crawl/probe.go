package crawl

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ResolveStartURL applies the trailing-slash probe: if start's path has no
// trailing slash and its last segment contains no ".", probe start+"/" via
// GET; if that returns 2xx with an HTML-ish content type, the probed URL's
// canonical form becomes the effective start. This avoids accidentally
// crawling both "/docs" and "/docs/" as distinct scopes.
func ResolveStartURL(ctx context.Context, raw string, fetcher Fetcher) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("crawl: parse start url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("crawl: unsupported scheme %q", u.Scheme)
	}

	if strings.HasSuffix(u.Path, "/") {
		return u, nil
	}
	lastSegment := path.Base(u.Path)
	if strings.Contains(lastSegment, ".") {
		return u, nil
	}

	probe := *u
	probe.Path = u.Path + "/"

	res, err := fetcher.Fetch(ctx, probe.String())
	if err != nil {
		return u, nil
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return u, nil
	}
	if !strings.Contains(strings.ToLower(res.ContentType), "html") {
		return u, nil
	}

	return &probe, nil
}
