package manifest

import (
	"fmt"

	"github.com/sitebookify/sitebookify/internal/model"
)

// Run builds the manifest for a site-crawl acquisition: it scans
// extractedDir and writes the result to manifestPath. It refuses to
// overwrite an existing manifest.
func Run(extractedDir, manifestPath string) ([]model.ManifestRecord, error) {
	records, err := Build(extractedDir)
	if err != nil {
		return nil, err
	}
	if err := Write(manifestPath, records); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return records, nil
}
