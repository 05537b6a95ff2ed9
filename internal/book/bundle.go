package book

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bundle concatenates the rendered chapter files named by stems, in order,
// into a single Markdown file at outPath, separated by a blank line. This
// is the book.md the artifact store packages into the job's artifact.zip.
func Bundle(bookDir string, stems []string, outPath string) error {
	var sb strings.Builder
	for i, stem := range stems {
		path := filepath.Join(bookDir, "src", "chapters", stem+".md")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("book: read %s: %w", path, err)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimRight(string(data), "\n"))
		sb.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("book: create %s: %w", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("book: write %s: %w", outPath, err)
	}
	return nil
}
