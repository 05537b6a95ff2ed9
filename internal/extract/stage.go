package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitebookify/sitebookify/internal/model"
)

// Options configures one extraction stage run.
type Options struct {
	Records      []model.CrawlRecord
	ExtractedDir string
	Extractor    Extractor
}

// Run extracts every CrawlRecord that has a RawHTMLPath, writing one
// ExtractedPage per page. The stage never overwrites an existing output
// directory.
func Run(opts Options) error {
	if _, err := os.Stat(opts.ExtractedDir); err == nil {
		return fmt.Errorf("extract: %s already exists", opts.ExtractedDir)
	}
	if err := os.MkdirAll(opts.ExtractedDir, 0o755); err != nil {
		return fmt.Errorf("extract: create extracted dir: %w", err)
	}

	extractor := opts.Extractor
	if extractor == nil {
		extractor = NewReadabilityExtractor()
	}

	for _, rec := range opts.Records {
		if rec.RawHTMLPath == "" {
			continue
		}
		if err := extractOne(opts.ExtractedDir, extractor, rec); err != nil {
			return fmt.Errorf("extract: %s: %w", rec.URL, err)
		}
	}
	return nil
}

func extractOne(extractedDir string, extractor Extractor, rec model.CrawlRecord) error {
	id := pageID(rec.NormalizedURL)

	var fm model.ExtractedFrontMatter
	var body string

	html, readErr := os.ReadFile(rec.RawHTMLPath)
	if readErr != nil {
		fm, body = placeholderPage(rec, id)
	} else {
		result, extractErr := extractor.Extract(html, rec.NormalizedURL)
		if extractErr != nil {
			fm, body = placeholderPage(rec, id)
		} else {
			fm = model.ExtractedFrontMatter{
				ID:          id,
				URL:         rec.URL,
				RetrievedAt: rec.RetrievedAt,
				RawHTMLPath: rec.RawHTMLPath,
				Title:       result.Title,
			}
			body = strings.TrimSpace(result.Body)
			if !strings.HasPrefix(body, "# ") {
				body = "# " + result.Title + "\n\n" + body
			}
		}
	}

	path := filepath.Join(extractedDir, id+".md")
	return WriteExtractedPage(path, fm, body)
}

func placeholderPage(rec model.CrawlRecord, id string) (model.ExtractedFrontMatter, string) {
	fm := model.ExtractedFrontMatter{
		ID:          id,
		URL:         rec.URL,
		RetrievedAt: rec.RetrievedAt,
		RawHTMLPath: rec.RawHTMLPath,
		Title:       rec.URL,
	}
	return fm, fmt.Sprintf("# %s\n\nTODO: extraction failed for %s", rec.URL, rec.URL)
}

// pageID is the deterministic id for a site-crawled page:
// "p_" + hex(SHA-256(normalized_url)).
func pageID(normalizedURL string) string {
	sum := sha256.Sum256([]byte(normalizedURL))
	return "p_" + hex.EncodeToString(sum[:])
}
