package extract

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Extraction is the (title, body) pair an Extractor returns for one page.
type Extraction struct {
	Title string
	Body  string
}

// Extractor turns raw HTML into a title and a Markdown body. The spec
// treats this as an opaque collaborator (a Readability-style transform);
// this is the concrete implementation this module ships.
type Extractor interface {
	Extract(html []byte, pageURL string) (Extraction, error)
}

// ReadabilityExtractor strips navigational chrome, picks the densest
// remaining content container, and converts it to Markdown.
type ReadabilityExtractor struct {
	converter *md.Converter
}

// NewReadabilityExtractor returns the default Extractor.
func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{converter: md.NewConverter("", true, nil)}
}

var strippedSelectors = []string{"script", "style", "nav", "footer", "aside", "noscript", "iframe", "form"}

// Extract implements Extractor.
func (e *ReadabilityExtractor) Extract(html []byte, pageURL string) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Extraction{}, fmt.Errorf("extract: parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = pageURL
	}

	for _, sel := range strippedSelectors {
		doc.Find(sel).Remove()
	}

	container := densestContainer(doc)

	bodyHTML, err := container.Html()
	if err != nil {
		return Extraction{}, fmt.Errorf("extract: serialize container: %w", err)
	}

	bodyMD, err := e.converter.ConvertString(bodyHTML)
	if err != nil {
		return Extraction{}, fmt.Errorf("extract: convert to markdown: %w", err)
	}

	return Extraction{Title: title, Body: strings.TrimSpace(bodyMD)}, nil
}

// densestContainer picks the element (among body, article, main, and
// div/section) with the most text, a cheap readability heuristic.
func densestContainer(doc *goquery.Document) *goquery.Selection {
	best := doc.Find("body")
	bestLen := len(best.Text())

	doc.Find("article, main, div, section").Each(func(_ int, sel *goquery.Selection) {
		l := len(strings.TrimSpace(sel.Text()))
		if l > bestLen {
			best = sel
			bestLen = l
		}
	})

	return best
}
