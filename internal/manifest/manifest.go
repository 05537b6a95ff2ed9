// Package manifest builds the line-delimited JSON index of extracted
// pages, sorted by URL path.
package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sitebookify/sitebookify/internal/extract"
	"github.com/sitebookify/sitebookify/internal/model"
)

// Build scans every *.md file in extractedDir, reads its front matter, and
// returns one ManifestRecord per page sorted by URL path.
func Build(extractedDir string) ([]model.ManifestRecord, error) {
	entries, err := os.ReadDir(extractedDir)
	if err != nil {
		return nil, fmt.Errorf("manifest: read extracted dir: %w", err)
	}

	var records []model.ManifestRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(extractedDir, e.Name())
		fm, _, err := extract.ReadExtractedPage(path)
		if err != nil {
			return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
		}

		records = append(records, model.ManifestRecord{
			ID:          fm.ID,
			URL:         fm.URL,
			Title:       fm.Title,
			Path:        URLPath(fm.URL),
			ExtractedMD: path,
			TrustTier:   fm.TrustTier,
		})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// URLPath extracts the path component of a URL, used as the manifest's
// sort key; it falls back to the raw string if parsing fails.
func URLPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// Write serializes records as line-delimited JSON to path. It refuses to
// overwrite an existing file.
func Write(path string, records []model.ManifestRecord) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("manifest: create %s: %w", path, err)
	}
	defer f.Close()

	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("manifest: marshal record: %w", err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("manifest: write %s: %w", path, err)
		}
	}
	return nil
}

// Read parses a line-delimited JSON manifest back into records, and also
// indexes them by id for stage consumers (toc, book render).
func Read(path string) ([]model.ManifestRecord, map[string]model.ManifestRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	defer f.Close()

	byID := map[string]model.ManifestRecord{}
	var records []model.ManifestRecord

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec model.ManifestRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, nil, fmt.Errorf("manifest: parse record: %w", err)
		}
		records = append(records, rec)
		byID[rec.ID] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("manifest: scan %s: %w", path, err)
	}

	return records, byID, nil
}
