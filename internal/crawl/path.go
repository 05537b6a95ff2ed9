package crawl

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// RawHTMLPath computes the on-disk path (relative to the raw/html/ root)
// a saved page is stored at: <host[_port]>/<path components>/index.html.
// Path segments equal to "." or ".." are rejected to avoid escaping the store.
func RawHTMLPath(u *url.URL) (string, error) {
	host := u.Hostname()
	if port := u.Port(); port != "" {
		host = host + "_" + port
	}

	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	clean := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if seg == ".." || seg == "." {
			return "", fmt.Errorf("crawl: unsafe path segment %q in %s", seg, u.String())
		}
		clean = append(clean, seg)
	}

	return path.Join(append([]string{host}, append(clean, "index.html")...)...), nil
}
