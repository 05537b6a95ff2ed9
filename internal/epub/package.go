package epub

import (
	"fmt"
	"strings"
)

// generatePackage builds OEBPS/content.opf: metadata, manifest, and spine.
func (b *Builder) generatePackage() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="pub-id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
`)
	sb.WriteString(fmt.Sprintf("    <dc:identifier id=\"pub-id\">%s</dc:identifier>\n", b.identifier))
	sb.WriteString(fmt.Sprintf("    <dc:title>%s</dc:title>\n", escapeXML(b.book.Title)))

	lang := b.book.Language
	if lang == "" {
		lang = "und"
	}
	sb.WriteString(fmt.Sprintf("    <dc:language>%s</dc:language>\n", lang))
	sb.WriteString(fmt.Sprintf("    <meta property=\"dcterms:modified\">%s</meta>\n",
		b.modified.Format("2006-01-02T15:04:05Z")))
	sb.WriteString("  </metadata>\n\n")

	sb.WriteString("  <manifest>\n")
	sb.WriteString("    <item id=\"nav\" href=\"nav.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\"/>\n")
	sb.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	sb.WriteString("    <item id=\"style\" href=\"style.css\" media-type=\"text/css\"/>\n")
	for i, ch := range b.chapters {
		sb.WriteString(fmt.Sprintf("    <item id=\"chap%d\" href=\"%s.xhtml\" media-type=\"application/xhtml+xml\"/>\n",
			i+1, ch.Stem))
	}
	for i, a := range b.assets {
		sb.WriteString(fmt.Sprintf("    <item id=\"asset%d\" href=\"assets/%s\" media-type=\"%s\"/>\n",
			i+1, a.Rel, mediaType(a.Rel)))
	}
	sb.WriteString("  </manifest>\n\n")

	sb.WriteString("  <spine toc=\"ncx\">\n")
	for i := range b.chapters {
		sb.WriteString(fmt.Sprintf("    <itemref idref=\"chap%d\"/>\n", i+1))
	}
	sb.WriteString("  </spine>\n</package>\n")

	return sb.String()
}

// escapeXML escapes the five predefined XML entities.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// mediaType derives the IANA media type of an asset from its extension.
func mediaType(rel string) string {
	ext := strings.ToLower(rel)
	if idx := strings.LastIndexByte(ext, '.'); idx >= 0 {
		ext = ext[idx+1:]
	} else {
		ext = ""
	}
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "svg":
		return "image/svg+xml"
	case "webp":
		return "image/webp"
	case "avif":
		return "image/avif"
	default:
		return "application/octet-stream"
	}
}
