package epub

import (
	"regexp"
	"strings"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// selfCloseVoidElements rewrites every void-element start tag to carry a
// self-closing slash, leaving comments, doctypes, and end tags untouched.
// Quoted attribute values are scanned over so a literal ">" inside one
// never ends the tag early.
func selfCloseVoidElements(html string) string {
	var sb strings.Builder
	i := 0
	for i < len(html) {
		if html[i] != '<' {
			sb.WriteByte(html[i])
			i++
			continue
		}
		if strings.HasPrefix(html[i:], "<!") {
			end := strings.IndexByte(html[i:], '>')
			if end < 0 {
				sb.WriteString(html[i:])
				break
			}
			sb.WriteString(html[i : i+end+1])
			i += end + 1
			continue
		}
		if i+1 < len(html) && html[i+1] == '/' {
			end := strings.IndexByte(html[i:], '>')
			if end < 0 {
				sb.WriteString(html[i:])
				break
			}
			sb.WriteString(html[i : i+end+1])
			i += end + 1
			continue
		}

		name, tagEnd, ok := scanTagName(html, i+1)
		if !ok || !voidElements[name] {
			sb.WriteByte(html[i])
			i++
			continue
		}
		closeIdx := scanTagClose(html, tagEnd)
		if closeIdx < 0 {
			sb.WriteString(html[i:])
			break
		}
		tag := html[i : closeIdx+1]
		if strings.HasSuffix(tag, "/>") {
			sb.WriteString(tag)
		} else {
			sb.WriteString(tag[:len(tag)-1] + " />")
		}
		i = closeIdx + 1
	}
	return sb.String()
}

func scanTagName(s string, start int) (string, int, bool) {
	i := start
	for i < len(s) && isTagNameChar(s[i]) {
		i++
	}
	if i == start {
		return "", 0, false
	}
	return strings.ToLower(s[start:i]), i, true
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// scanTagClose returns the index of the ">" that ends a start tag whose
// name ends at from, skipping over quoted attribute values.
func scanTagClose(s string, from int) int {
	var inQuote byte
	for i := from; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inQuote = c
		case '>':
			return i
		}
	}
	return -1
}

var hrefSrcAttr = regexp.MustCompile(`(href|src)="([^"]*)"`)
var chaptersMDPattern = regexp.MustCompile(`(?:\./)?chapters/([^/"']+)\.md`)
var bareMDPattern = regexp.MustCompile(`^([^/"']+)\.md$`)

// rewriteURLs rewrites href/src attribute values per the packaging
// contract: "../assets/" collapses to "assets/", and any reference to a
// source chapter's Markdown file (bare or "chapters/"-prefixed, with or
// without a "./" prefix) becomes a reference to its packaged XHTML file.
func rewriteURLs(html string) string {
	return hrefSrcAttr.ReplaceAllStringFunc(html, func(m string) string {
		sub := hrefSrcAttr.FindStringSubmatch(m)
		return sub[1] + `="` + rewriteURL(sub[2]) + `"`
	})
}

func rewriteURL(u string) string {
	u = strings.ReplaceAll(u, "../assets/", "assets/")
	if chaptersMDPattern.MatchString(u) {
		return chaptersMDPattern.ReplaceAllString(u, "$1.xhtml")
	}
	if bareMDPattern.MatchString(u) {
		return bareMDPattern.ReplaceAllString(u, "$1.xhtml")
	}
	return u
}
