package epub

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
)

// renderMarkdown converts CommonMark (GFM + footnotes, tables, tasklists,
// strikethrough, autolinks) to HTML via goldmark.
func renderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("epub: render markdown: %w", err)
	}
	return buf.String(), nil
}

// generateChapterXHTML renders ch's Markdown body and wraps it in a
// complete XHTML document: goldmark HTML, URL-rewritten and with void
// elements self-closed.
func (b *Builder) generateChapterXHTML(ch Chapter) (string, error) {
	body, err := renderMarkdown(ch.Markdown)
	if err != nil {
		return "", err
	}
	body = rewriteURLs(body)
	body = selfCloseVoidElements(body)

	lang := langOrDefault(b.book.Language)

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" lang="%s" xml:lang="%s">
<head>
  <title>%s</title>
  <link rel="stylesheet" type="text/css" href="style.css"/>
</head>
<body>
%s
</body>
</html>
`, lang, lang, escapeXML(ch.Title), body), nil
}
