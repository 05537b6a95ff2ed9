package epub

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type bookToml struct {
	Book struct {
		Title string `toml:"title"`
	} `toml:"book"`
}

// LoadBookDir reads a rendered book directory (book.toml plus
// src/chapters/*.md) and returns the Book and Chapters a Builder needs.
// Chapter order follows the sorted chapter filenames (chNN.md), matching
// the book render stage's ch01..chNN naming.
func LoadBookDir(bookDir, language string) (Book, []Chapter, error) {
	tomlPath := filepath.Join(bookDir, "book.toml")
	data, err := os.ReadFile(tomlPath)
	if err != nil {
		return Book{}, nil, fmt.Errorf("epub: read %s: %w", tomlPath, err)
	}
	var bt bookToml
	if err := toml.Unmarshal(data, &bt); err != nil {
		return Book{}, nil, fmt.Errorf("epub: parse %s: %w", tomlPath, err)
	}

	chaptersDir := filepath.Join(bookDir, "src", "chapters")
	entries, err := os.ReadDir(chaptersDir)
	if err != nil {
		return Book{}, nil, fmt.Errorf("epub: read %s: %w", chaptersDir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	chapters := make([]Chapter, 0, len(names))
	for _, name := range names {
		path := filepath.Join(chaptersDir, name)
		md, err := os.ReadFile(path)
		if err != nil {
			return Book{}, nil, fmt.Errorf("epub: read %s: %w", path, err)
		}
		stem := strings.TrimSuffix(name, ".md")
		chapters = append(chapters, Chapter{
			Stem:     stem,
			Title:    firstHeading(string(md), stem),
			Markdown: string(md),
		})
	}

	book := Book{Title: bt.Book.Title, Language: LanguageTag(language)}
	return book, chapters, nil
}

func firstHeading(md, fallback string) string {
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return fallback
}
