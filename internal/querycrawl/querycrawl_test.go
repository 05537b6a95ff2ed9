package querycrawl

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitebookify/sitebookify/internal/manifest"
)

type fakeCrawler struct {
	sources []QuerySource
}

func (f fakeCrawler) Crawl(context.Context, CrawlQuery) ([]QuerySource, error) {
	return f.sources, nil
}

func TestRunWritesExtractedPagesAndManifest(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Query:        "widgets",
		ExtractedDir: filepath.Join(dir, "extracted"),
		ManifestPath: filepath.Join(dir, "manifest.jsonl"),
		Crawler: fakeCrawler{sources: []QuerySource{
			{URL: "https://example.com/a", Content: "Some content about widgets.", TrustTier: "primary", Title: "Widgets"},
			{URL: "https://example.com/b", Content: "# Already Headed\n\nMore content."},
		}},
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Manifest, 2)

	records, byID, err := manifest.Read(opts.ManifestPath)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		require.Contains(t, byID, r.ID)
	}
}

func TestRunFailsWithoutCrawler(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	require.Error(t, err)
}
