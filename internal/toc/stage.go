package toc

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sitebookify/sitebookify/internal/model"
)

// maxChapters enforces the ch01..chNN id scheme's two-digit width.
const maxChapters = 99

// Run synthesizes, validates, and stamps a Toc from the given manifest
// using engine. requestTitle is the StartJobRequest's title, used as the
// book title fallback when the plan supplies none.
func Run(ctx context.Context, engine Engine, records []model.ManifestRecord, requestTitle string) (model.Toc, error) {
	byID := make(map[string]model.ManifestRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	plan, err := engine.Synthesize(ctx, ManifestInput{RequestTitle: requestTitle, Records: records})
	if err != nil {
		return model.Toc{}, fmt.Errorf("toc: synthesize: %w", err)
	}
	if err := validatePlan(plan, byID); err != nil {
		return model.Toc{}, err
	}
	if len(plan.Chapters) > maxChapters {
		return model.Toc{}, fmt.Errorf("toc: %d chapters exceeds the %d-chapter limit", len(plan.Chapters), maxChapters)
	}

	bookTitle := plan.BookTitle
	if bookTitle == "" {
		bookTitle = requestTitle
	}
	if bookTitle == "" {
		bookTitle = deriveBookTitle(records)
	}

	chapters := make([]model.TocChapter, len(plan.Chapters))
	for i, pc := range plan.Chapters {
		chapters[i] = model.TocChapter{
			ID:          fmt.Sprintf("ch%02d", i+1),
			Title:       pc.Title,
			Sources:     pc.Sources,
			Intent:      pc.Intent,
			ReaderGains: pc.ReaderGains,
		}
	}

	return model.Toc{
		BookTitle: bookTitle,
		Parts:     []model.TocPart{{Title: bookTitle, Chapters: chapters}},
	}, nil
}

// validatePlan enforces §4.10's rules: a non-empty chapter list, every
// chapter has a title and at least one source, every source id exists in
// the manifest, and no id is claimed by more than one chapter.
func validatePlan(plan model.TocPlan, byID map[string]model.ManifestRecord) error {
	if len(plan.Chapters) == 0 {
		return fmt.Errorf("toc: plan has no chapters")
	}

	seen := map[string]bool{}
	totalSources := 0
	for _, ch := range plan.Chapters {
		if strings.TrimSpace(ch.Title) == "" {
			return fmt.Errorf("toc: chapter has no title")
		}
		if len(ch.Sources) == 0 {
			return fmt.Errorf("toc: chapter %q has no sources", ch.Title)
		}
		for _, id := range ch.Sources {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("toc: chapter %q references unknown source id %q", ch.Title, id)
			}
			if seen[id] {
				return fmt.Errorf("toc: source id %q assigned to more than one chapter", id)
			}
			seen[id] = true
			totalSources++
		}
	}
	if totalSources == 0 {
		return fmt.Errorf("toc: plan selects no sources")
	}
	return nil
}

// deriveBookTitle falls back to the longest common leading URL-path
// segment across every record, title-cased; "Untitled" if none is common.
func deriveBookTitle(records []model.ManifestRecord) string {
	if len(records) == 0 {
		return "Untitled"
	}

	var segsList [][]string
	for _, r := range records {
		u, err := url.Parse(r.URL)
		if err != nil {
			continue
		}
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		segsList = append(segsList, segs)
	}
	if len(segsList) == 0 {
		return "Untitled"
	}

	common := commonPrefix(segsList)
	if len(common) == 0 || common[0] == "" {
		return "Untitled"
	}
	return titleCase(strings.Join(common, " "))
}

// commonPrefix returns the longest sequence of segments shared, position
// by position, across every entry in segsList.
func commonPrefix(segsList [][]string) []string {
	var common []string
	for i := 0; ; i++ {
		var seg string
		for j, segs := range segsList {
			if i >= len(segs) {
				return common
			}
			if j == 0 {
				seg = segs[i]
			} else if segs[i] != seg {
				return common
			}
		}
		common = append(common, seg)
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ReplaceAll(s, "-", " "), "_", " "))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
