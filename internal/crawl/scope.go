package crawl

import (
	"net/url"
	"strings"
)

// Scope is the (scheme, host, port, path-prefix) tuple defining which URLs
// a crawl may visit.
type Scope struct {
	Scheme     string
	Host       string
	Port       string
	PathPrefix string
}

// ScopeFromStartURL derives a Scope from the crawl's start URL: same
// scheme/host/port, path prefix = the start URL's path ("/" if empty),
// matched by IsUnderPathPrefix with or without a trailing slash.
func ScopeFromStartURL(start *url.URL) Scope {
	prefix := start.Path
	if prefix == "" {
		prefix = "/"
	}
	return Scope{
		Scheme:     start.Scheme,
		Host:       start.Hostname(),
		Port:       start.Port(),
		PathPrefix: prefix,
	}
}

// IsSameOrigin reports whether u shares scheme, host, and port with s.
func (s Scope) IsSameOrigin(u *url.URL) bool {
	return u.Scheme == s.Scheme && u.Hostname() == s.Host && u.Port() == s.Port
}

// IsUnderPathPrefix reports whether u's path is within the scope's prefix.
// A prefix of "/" matches all paths. A prefix ending in "/" requires a
// simple string-prefix match. Otherwise u's path must equal the prefix or
// have "<prefix>/" as a prefix.
func (s Scope) IsUnderPathPrefix(u *url.URL) bool {
	if s.PathPrefix == "/" {
		return true
	}
	if strings.HasSuffix(s.PathPrefix, "/") {
		return strings.HasPrefix(u.Path, s.PathPrefix)
	}
	return u.Path == s.PathPrefix || strings.HasPrefix(u.Path, s.PathPrefix+"/")
}

// IsInScope combines IsSameOrigin and IsUnderPathPrefix.
func (s Scope) IsInScope(u *url.URL) bool {
	return s.IsSameOrigin(u) && s.IsUnderPathPrefix(u)
}
