package toc

import (
	"context"

	"github.com/sitebookify/sitebookify/internal/model"
)

// NoopEngine proposes one chapter per manifest page, in manifest order,
// titled after the page.
type NoopEngine struct{}

// Synthesize implements Engine.
func (NoopEngine) Synthesize(_ context.Context, input ManifestInput) (model.TocPlan, error) {
	plan := model.TocPlan{BookTitle: input.RequestTitle}
	for _, r := range input.Records {
		plan.Chapters = append(plan.Chapters, model.TocPlanChapter{
			Title:   r.Title,
			Sources: []string{r.ID},
		})
	}
	return plan, nil
}
