package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

// PreviewResult is the advisory outcome of estimating a site's crawl size
// without running a full crawl. It is never consumed by the pipeline.
type PreviewResult struct {
	Source            string // "sitemap" or "crawl"
	EstimatedPages    int
	EstimatedChapters int
}

type sitemapURLSet struct {
	XMLName xml.Name       `xml:"urlset"`
	URLs    []sitemapEntry `xml:"url"`
}

type sitemapEntry struct {
	Loc string `xml:"loc"`
}

// Preview estimates the number of pages (and, under the noop TOC engine's
// one-chapter-per-page rule, chapters) an eventual crawl of rawURL would
// produce. It first tries <origin>/sitemap.xml; if that is unavailable it
// falls back to a single fetch (GET) of rawURL and reports an estimate of
// one page.
func Preview(ctx context.Context, rawURL string, fetcher Fetcher) (PreviewResult, error) {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("crawl: parse preview url: %w", err)
	}

	sitemapURL := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/sitemap.xml"}
	res, err := fetcher.Fetch(ctx, sitemapURL.String())
	if err == nil && res.StatusCode >= 200 && res.StatusCode < 300 && looksLikeXML(res.Body) {
		var set sitemapURLSet
		if err := xml.Unmarshal(res.Body, &set); err == nil && len(set.URLs) > 0 {
			n := len(set.URLs)
			return PreviewResult{Source: "sitemap", EstimatedPages: n, EstimatedChapters: n}, nil
		}
	}

	if _, err := fetcher.Fetch(ctx, u.String()); err != nil {
		return PreviewResult{}, fmt.Errorf("crawl: preview fetch: %w", err)
	}
	return PreviewResult{Source: "crawl", EstimatedPages: 1, EstimatedChapters: 1}, nil
}

func looksLikeXML(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<urlset")
}
