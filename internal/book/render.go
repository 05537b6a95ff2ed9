// Package book assembles the rendered chapter Markdown, book.toml, and
// SUMMARY.md of a book directory from a synthesized Toc and its source
// pages, then bundles the rendered chapters into a single book.md.
package book

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/sitebookify/sitebookify/internal/extract"
	"github.com/sitebookify/sitebookify/internal/model"
	"github.com/sitebookify/sitebookify/internal/rewrite"
)

// Options configures one book render run.
type Options struct {
	Toc     model.Toc
	Records map[string]model.ManifestRecord
	BookDir string

	RenderEngine model.Engine
	Backend      rewrite.Backend
	Instructions string

	MaxChunkChars int
	Retries       int
	Policy        rewrite.Policy

	OnCall    func(rewrite.CallEvent)
	OnMissing func(rewrite.MissingTokenEvent)
}

type bookToml struct {
	Book struct {
		Title string `toml:"title"`
	} `toml:"book"`
}

// Render writes book.toml, src/SUMMARY.md, and one src/chapters/chNN.md per
// Toc chapter under opts.BookDir, in the fixed mdBook-like layout. It
// returns the chapter stems in book order, for Bundle.
func Render(ctx context.Context, opts Options) ([]string, error) {
	chaptersDir := filepath.Join(opts.BookDir, "src", "chapters")
	if err := os.MkdirAll(chaptersDir, 0o755); err != nil {
		return nil, fmt.Errorf("book: create %s: %w", chaptersDir, err)
	}

	var bt bookToml
	bt.Book.Title = opts.Toc.BookTitle
	tomlBytes, err := toml.Marshal(bt)
	if err != nil {
		return nil, fmt.Errorf("book: marshal book.toml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.BookDir, "book.toml"), tomlBytes, 0o644); err != nil {
		return nil, fmt.Errorf("book: write book.toml: %w", err)
	}

	var stems []string
	for _, part := range opts.Toc.Parts {
		for _, ch := range part.Chapters {
			md, err := renderChapter(ctx, ch, opts)
			if err != nil {
				return nil, fmt.Errorf("book: render chapter %s: %w", ch.ID, err)
			}
			path := filepath.Join(chaptersDir, ch.ID+".md")
			if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
				return nil, fmt.Errorf("book: write %s: %w", path, err)
			}
			stems = append(stems, ch.ID)
		}
	}

	summary := generateSummary(opts.Toc)
	if err := os.WriteFile(filepath.Join(opts.BookDir, "src", "SUMMARY.md"), []byte(summary), 0o644); err != nil {
		return nil, fmt.Errorf("book: write SUMMARY.md: %w", err)
	}

	return stems, nil
}

// renderChapter assembles one chapter's Markdown from the fixed skeleton,
// rewriting each source page's body via the rewrite protocol when
// opts.RenderEngine is not noop.
func renderChapter(ctx context.Context, ch model.TocChapter, opts Options) (string, error) {
	var sb strings.Builder
	sb.WriteString("# " + ch.Title + "\n\n")
	sb.WriteString("## Objectives\nTODO\n\n")
	sb.WriteString("## Prerequisites\nTODO\n\n")
	sb.WriteString("## Body\n\n")

	for _, id := range ch.Sources {
		rec, ok := opts.Records[id]
		if !ok {
			return "", fmt.Errorf("book: chapter %s references unknown source %q", ch.ID, id)
		}

		fm, body, err := extract.ReadExtractedPage(rec.ExtractedMD)
		if err != nil {
			return "", fmt.Errorf("book: read %s: %w", rec.ExtractedMD, err)
		}
		body = stripLeadingHeading(body)

		if opts.RenderEngine != model.EngineNoop && opts.Backend != nil {
			_, rewritten, err := rewrite.RewritePage(ctx, body, rewrite.Options{
				Backend:       opts.Backend,
				MaxChunkChars: opts.MaxChunkChars,
				Retries:       opts.Retries,
				Policy:        opts.Policy,
				Instructions:  opts.Instructions,
				OnCall:        opts.OnCall,
				OnMissing:     opts.OnMissing,
			})
			if err != nil {
				return "", fmt.Errorf("book: rewrite %s: %w", rec.URL, err)
			}
			body = rewritten
		}

		title := fm.Title
		if title == "" {
			title = rec.Title
		}
		sb.WriteString("### " + title + "\n\n")
		sb.WriteString(strings.TrimSpace(body))
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Summary\nTODO\n\n")
	sb.WriteString("## Sources\n")
	for _, id := range ch.Sources {
		sb.WriteString("- " + opts.Records[id].URL + "\n")
	}

	return sb.String(), nil
}

// stripLeadingHeading removes a body's leading level-1 heading line, if
// present; extracted page bodies always carry one (the extraction stage
// prefixes the page title as an h1 when the source HTML lacked one).
func stripLeadingHeading(body string) string {
	trimmed := strings.TrimLeft(body, "\n")
	if !strings.HasPrefix(trimmed, "# ") {
		return body
	}
	idx := strings.IndexByte(trimmed, '\n')
	if idx < 0 {
		return ""
	}
	return strings.TrimLeft(trimmed[idx+1:], "\n")
}
