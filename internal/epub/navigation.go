package epub

import (
	"fmt"
	"strings"
)

// generateNavigation builds OEBPS/nav.xhtml, the EPUB 3 nav document.
func (b *Builder) generateNavigation() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" lang="`)
	sb.WriteString(langOrDefault(b.book.Language))
	sb.WriteString(`" xml:lang="`)
	sb.WriteString(langOrDefault(b.book.Language))
	sb.WriteString(`">
<head>
  <title>`)
	sb.WriteString(escapeXML(b.book.Title))
	sb.WriteString(`</title>
  <link rel="stylesheet" type="text/css" href="style.css"/>
</head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>`)
	sb.WriteString(escapeXML(b.book.Title))
	sb.WriteString(`</h1>
    <ol>
`)
	for _, ch := range b.chapters {
		sb.WriteString(fmt.Sprintf("      <li><a href=\"%s.xhtml\">%s</a></li>\n", ch.Stem, escapeXML(ch.Title)))
	}
	sb.WriteString(`    </ol>
  </nav>
</body>
</html>
`)

	return sb.String()
}

// generateNCX builds OEBPS/toc.ncx for EPUB 2 reading-system back-compat.
func (b *Builder) generateNCX() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="`)
	sb.WriteString(b.identifier)
	sb.WriteString(`"/>
    <meta name="dtb:depth" content="1"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle>
    <text>`)
	sb.WriteString(escapeXML(b.book.Title))
	sb.WriteString(`</text>
  </docTitle>
  <navMap>
`)
	for i, ch := range b.chapters {
		sb.WriteString(fmt.Sprintf("    <navPoint id=\"navpoint-%d\" playOrder=\"%d\">\n", i+1, i+1))
		sb.WriteString(fmt.Sprintf("      <navLabel><text>%s</text></navLabel>\n", escapeXML(ch.Title)))
		sb.WriteString(fmt.Sprintf("      <content src=\"%s.xhtml\"/>\n", ch.Stem))
		sb.WriteString("    </navPoint>\n")
	}
	sb.WriteString(`  </navMap>
</ncx>
`)

	return sb.String()
}

func langOrDefault(lang string) string {
	if lang == "" {
		return "und"
	}
	return lang
}
