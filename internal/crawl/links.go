package crawl

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DiscoverLinks parses html and returns every absolute, normalized link
// reachable from it (href on <a>, and <link rel="canonical">), resolved
// against base.
func DiscoverLinks(base *url.URL, html []byte) []*url.URL {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	var out []*url.URL
	seen := map[string]bool{}

	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "javascript:") || strings.HasPrefix(raw, "mailto:") {
			return
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		key := NormalizeURL(resolved)
		if seen[key] {
			return
		}
		seen[key] = true
		parsed, err := url.Parse(key)
		if err != nil {
			return
		}
		out = append(out, parsed)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			add(href)
		}
	})
	doc.Find("link[rel=canonical][href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			add(href)
		}
	})

	return out
}
