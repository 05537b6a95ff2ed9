// Package querycrawl implements the query-driven acquisition front-end:
// an LLM-assisted deep crawl that returns already-extracted Markdown
// sources directly, skipping the HTML-save, extract, and manifest stages.
package querycrawl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sitebookify/sitebookify/internal/extract"
	"github.com/sitebookify/sitebookify/internal/manifest"
	"github.com/sitebookify/sitebookify/internal/model"
)

// QuerySource is one source the deep-crawl service returned.
type QuerySource struct {
	URL       string
	Content   string
	TrustTier string
	Title     string
}

// CrawlQuery is the input to a QueryCrawler.
type CrawlQuery struct {
	Query      string
	MaxPages   int
	SearchLimit int
}

// QueryCrawler is the opaque external deep-crawl service: given a topical
// query, it returns markdown sources with a trust tier, already extracted.
type QueryCrawler interface {
	Crawl(ctx context.Context, q CrawlQuery) ([]QuerySource, error)
}

// Options configures one query-driven acquisition run.
type Options struct {
	Query       string
	MaxPages    int
	SearchLimit int

	// ExtractedDir is work/extracted/pages; ManifestPath is work/manifest.jsonl.
	ExtractedDir string
	ManifestPath string

	Crawler QueryCrawler
}

// Result is the outcome of a query-driven acquisition run.
type Result struct {
	Manifest []model.ManifestRecord
}

// Run drives the query-driven acquisition variant: it writes one
// ExtractedPage per source with id = first 32 hex chars of SHA-256(url),
// and writes the manifest in the same step, producing the same manifest
// contract as the site-crawl path.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Crawler == nil {
		return Result{}, fmt.Errorf("querycrawl: no crawler configured")
	}
	sources, err := opts.Crawler.Crawl(ctx, CrawlQuery{Query: opts.Query, MaxPages: opts.MaxPages, SearchLimit: opts.SearchLimit})
	if err != nil {
		return Result{}, fmt.Errorf("querycrawl: crawl: %w", err)
	}

	if err := os.MkdirAll(opts.ExtractedDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("querycrawl: create extracted dir: %w", err)
	}

	var records []model.ManifestRecord
	now := time.Now().UTC()

	for _, src := range sources {
		id := pageID(src.URL)
		title := src.Title
		if title == "" {
			title = src.URL
		}

		fm := model.ExtractedFrontMatter{
			ID:          id,
			URL:         src.URL,
			RetrievedAt: now,
			Title:       title,
			TrustTier:   src.TrustTier,
		}
		body := src.Content
		if !startsWithHeading(body) {
			body = "# " + title + "\n\n" + body
		}

		path := filepath.Join(opts.ExtractedDir, id+".md")
		if err := extract.WriteExtractedPage(path, fm, body); err != nil {
			return Result{}, fmt.Errorf("querycrawl: write extracted page %s: %w", src.URL, err)
		}

		records = append(records, model.ManifestRecord{
			ID:          id,
			URL:         src.URL,
			Title:       title,
			Path:        manifest.URLPath(src.URL),
			ExtractedMD: path,
			TrustTier:   src.TrustTier,
		})
	}

	if err := manifest.Write(opts.ManifestPath, records); err != nil {
		return Result{}, fmt.Errorf("querycrawl: write manifest: %w", err)
	}

	return Result{Manifest: records}, nil
}

// pageID is the query front-end's own id scheme (§4.7): the first 32 hex
// chars of SHA-256(url), unprefixed — distinct from the extraction
// stage's "p_"-prefixed scheme, since the query front-end never
// normalizes a URL the way the site crawl does (it never observes an
// HTTP response to normalize against).
func pageID(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:16])
}

func startsWithHeading(body string) bool {
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '#':
			return true
		default:
			return false
		}
	}
	return false
}
