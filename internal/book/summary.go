package book

import (
	"fmt"
	"strings"

	"github.com/sitebookify/sitebookify/internal/model"
)

// generateSummary builds a mdBook-style SUMMARY.md: a single part emits a
// flat chapter list, multiple parts get a heading each.
func generateSummary(toc model.Toc) string {
	var sb strings.Builder
	sb.WriteString("# Summary\n\n")

	multipart := len(toc.Parts) > 1
	for _, part := range toc.Parts {
		if multipart {
			sb.WriteString("# " + part.Title + "\n\n")
		}
		for _, ch := range part.Chapters {
			sb.WriteString(fmt.Sprintf("- [%s](chapters/%s.md)\n", ch.Title, ch.ID))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}
