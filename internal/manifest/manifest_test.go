package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitebookify/sitebookify/internal/extract"
	"github.com/sitebookify/sitebookify/internal/model"
)

func TestBuildSortsByURLPath(t *testing.T) {
	dir := t.TempDir()

	pages := []struct {
		id  string
		url string
	}{
		{"p_b", "https://example.com/docs/zeta"},
		{"p_a", "https://example.com/docs/alpha"},
	}
	for _, p := range pages {
		fm := model.ExtractedFrontMatter{ID: p.id, URL: p.url, Title: p.id}
		require.NoError(t, extract.WriteExtractedPage(filepath.Join(dir, p.id+".md"), fm, "# "+p.id))
	}

	records, err := Build(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "/docs/alpha", records[0].Path)
	require.Equal(t, "/docs/zeta", records[1].Path)
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.jsonl")

	records := []model.ManifestRecord{
		{ID: "p_a", URL: "https://example.com/a", Title: "A", Path: "/a"},
		{ID: "p_b", URL: "https://example.com/b", Title: "B", Path: "/b"},
	}
	require.NoError(t, Write(path, records))

	got, byID, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "A", byID["p_a"].Title)
}

func TestWriteRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.jsonl")

	require.NoError(t, Write(path, nil))
	require.Error(t, Write(path, nil))
}

func TestURLPathFallsBackToRawString(t *testing.T) {
	require.Equal(t, "/x/y", URLPath("https://example.com/x/y?q=1"))
	require.Equal(t, "%zz", URLPath("%zz"))
}
