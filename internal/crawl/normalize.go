package crawl

import (
	"net/url"
	"strings"
)

// NormalizeURL strips the query and fragment from u, returning the
// canonical string used for CrawlRecord.NormalizedURL and for deduplicating
// discovered links before they are enqueued.
func NormalizeURL(u *url.URL) string {
	n := *u
	n.RawQuery = ""
	n.Fragment = ""
	n.RawFragment = ""
	return n.String()
}

// CanonicalURL additionally collapses trailing slashes (except for the
// root path "/"), for scope/equality comparisons where "/docs" and
// "/docs/" should be treated the same.
func CanonicalURL(u *url.URL) string {
	normalized := NormalizeURL(u)
	parsed, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	if parsed.Path != "/" {
		parsed.Path = strings.TrimRight(parsed.Path, "/")
	}
	return parsed.String()
}

// LooksLikeHTML reports whether body appears to be an HTML document: it
// starts with "<!doctype html" or "<html" (case-insensitive), or contains
// "<html" anywhere in the first portion of the body.
func LooksLikeHTML(body []byte) bool {
	const sniffLen = 1024
	sample := body
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	lower := strings.ToLower(strings.TrimSpace(string(sample)))
	if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
		return true
	}
	return strings.Contains(lower, "<html")
}
