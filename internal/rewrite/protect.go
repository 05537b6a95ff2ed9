package rewrite

import (
	"regexp"
	"strings"
)

// Protect walks text and replaces, in order, fenced code blocks, inline
// code spans, Markdown link destinations, and autolinks/bare URLs with
// placeholder tokens recorded in store. Later passes operate on text that
// already contains tokens from earlier passes; since a token contains
// none of backtick, "](", or "http", it is opaque to them.
func Protect(text string, store *Store) string {
	text = protectFencedCode(text, store)
	text = protectInlineCode(text, store)
	text = protectLinkDestinations(text, store)
	text = protectAutolinksAndBareURLs(text, store)
	return text
}

// protectFencedCode replaces each ``` or ~~~ fenced block (opening fence
// through its matching closing fence, inclusive) with one token.
func protectFencedCode(text string, store *Store) string {
	lines := strings.Split(text, "\n")
	var out []string
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if marker, ok := fenceMarker(trimmed); ok {
			start := i
			i++
			for i < len(lines) {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), marker) {
					i++
					break
				}
				i++
			}
			block := strings.Join(lines[start:i], "\n")
			out = append(out, store.Protect(block))
			continue
		}
		out = append(out, lines[i])
		i++
	}
	return strings.Join(out, "\n")
}

func fenceMarker(trimmedLine string) (string, bool) {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmedLine) && trimmedLine[n] == ch {
			n++
		}
		if n >= 3 {
			return trimmedLine[:n], true
		}
	}
	return "", false
}

// protectInlineCode replaces `code` spans (any backtick run length n,
// matched by a same-length closing run) with tokens.
func protectInlineCode(text string, store *Store) string {
	var sb strings.Builder
	i := 0
	for i < len(text) {
		if text[i] != '`' {
			sb.WriteByte(text[i])
			i++
			continue
		}
		runStart := i
		for i < len(text) && text[i] == '`' {
			i++
		}
		runLen := i - runStart

		closeIdx := findBacktickRun(text, i, runLen)
		if closeIdx < 0 {
			sb.WriteString(text[runStart:i])
			continue
		}
		span := text[runStart : closeIdx+runLen]
		sb.WriteString(store.Protect(span))
		i = closeIdx + runLen
	}
	return sb.String()
}

// findBacktickRun finds the next run of exactly n backticks starting at
// or after from, returning its start index or -1.
func findBacktickRun(text string, from, n int) int {
	for idx := from; idx < len(text); {
		if text[idx] != '`' {
			idx++
			continue
		}
		start := idx
		for idx < len(text) && text[idx] == '`' {
			idx++
		}
		if idx-start == n {
			return start
		}
	}
	return -1
}

// protectLinkDestinations replaces the content inside "](...)" (balanced
// parentheses) of a Markdown link with a token, leaving "](" and the
// closing ")" in place.
func protectLinkDestinations(text string, store *Store) string {
	var sb strings.Builder
	i := 0
	for i < len(text) {
		if strings.HasPrefix(text[i:], "](") {
			openParen := i + 1
			contentStart := openParen + 1
			end := matchingParen(text, openParen)
			if end < 0 {
				sb.WriteString(text[i:])
				break
			}
			sb.WriteString("](")
			content := text[contentStart:end]
			if strings.TrimSpace(content) != "" {
				sb.WriteString(store.Protect(content))
			}
			sb.WriteByte(')')
			i = end + 1
			continue
		}
		sb.WriteByte(text[i])
		i++
	}
	return sb.String()
}

// matchingParen returns the index of the ")" that closes the "(" at
// openIdx, accounting for nested parentheses, or -1 if unbalanced.
func matchingParen(text string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var autolinkPattern = regexp.MustCompile(`<(https?://[^\s>]+)>`)
var bareURLPattern = regexp.MustCompile(`https?://[^\s<>)\]]+`)

// protectAutolinksAndBareURLs replaces <http...> autolinks and bare
// http(s):// URLs (up to the next whitespace, "<", ">", ")" or "]") with
// tokens.
func protectAutolinksAndBareURLs(text string, store *Store) string {
	text = autolinkPattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[1 : len(m)-1]
		return "<" + store.Protect(inner) + ">"
	})
	text = bareURLPattern.ReplaceAllStringFunc(text, func(m string) string {
		return store.Protect(m)
	})
	return text
}
