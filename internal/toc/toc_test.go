package toc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitebookify/sitebookify/internal/model"
)

func records() []model.ManifestRecord {
	return []model.ManifestRecord{
		{ID: "p_a", URL: "https://example.com/docs/alpha", Title: "Alpha", Path: "/docs/alpha"},
		{ID: "p_b", URL: "https://example.com/docs/beta", Title: "Beta", Path: "/docs/beta"},
	}
}

func TestNoopEngineOneChapterPerPage(t *testing.T) {
	plan, err := NoopEngine{}.Synthesize(context.Background(), ManifestInput{Records: records()})
	require.NoError(t, err)
	require.Len(t, plan.Chapters, 2)
	require.Equal(t, "Alpha", plan.Chapters[0].Title)
	require.Equal(t, []string{"p_a"}, plan.Chapters[0].Sources)
}

func TestRunStampsChapterIDsInOrder(t *testing.T) {
	toc, err := Run(context.Background(), NoopEngine{}, records(), "My Book")
	require.NoError(t, err)
	require.Equal(t, "My Book", toc.BookTitle)
	require.Len(t, toc.Parts, 1)
	require.Equal(t, "ch01", toc.Parts[0].Chapters[0].ID)
	require.Equal(t, "ch02", toc.Parts[0].Chapters[1].ID)
}

type planEngine struct {
	plan model.TocPlan
}

func (e planEngine) Synthesize(context.Context, ManifestInput) (model.TocPlan, error) {
	return e.plan, nil
}

func TestRunRejectsUnknownSourceID(t *testing.T) {
	engine := planEngine{plan: model.TocPlan{
		Chapters: []model.TocPlanChapter{{Title: "Ch1", Sources: []string{"p_missing"}}},
	}}
	_, err := Run(context.Background(), engine, records(), "")
	require.Error(t, err)
}

func TestRunRejectsDuplicateSourceAcrossChapters(t *testing.T) {
	engine := planEngine{plan: model.TocPlan{
		Chapters: []model.TocPlanChapter{
			{Title: "Ch1", Sources: []string{"p_a"}},
			{Title: "Ch2", Sources: []string{"p_a"}},
		},
	}}
	_, err := Run(context.Background(), engine, records(), "")
	require.Error(t, err)
}

func TestRunRejectsEmptyChapterTitleOrSources(t *testing.T) {
	engine := planEngine{plan: model.TocPlan{
		Chapters: []model.TocPlanChapter{{Title: "", Sources: []string{"p_a"}}},
	}}
	_, err := Run(context.Background(), engine, records(), "")
	require.Error(t, err)

	engine = planEngine{plan: model.TocPlan{
		Chapters: []model.TocPlanChapter{{Title: "Ch1", Sources: nil}},
	}}
	_, err = Run(context.Background(), engine, records(), "")
	require.Error(t, err)
}

func TestRunAllowsOmittedPages(t *testing.T) {
	engine := planEngine{plan: model.TocPlan{
		Chapters: []model.TocPlanChapter{{Title: "Ch1", Sources: []string{"p_a"}}},
	}}
	toc, err := Run(context.Background(), engine, records(), "Book")
	require.NoError(t, err)
	require.Len(t, toc.Parts[0].Chapters, 1)
}

func TestDeriveBookTitleFromCommonPrefix(t *testing.T) {
	toc, err := Run(context.Background(), NoopEngine{}, records(), "")
	require.NoError(t, err)
	require.Equal(t, "Docs", toc.BookTitle)
}

func TestCommandEngineExtractsJSONObject(t *testing.T) {
	engine := CommandEngine{
		Name: "sh",
		Args: []string{"-c", `echo 'noise before {"chapters":[{"title":"Ch1","sources":["p_a"]}]} noise after'`},
	}
	plan, err := engine.Synthesize(context.Background(), ManifestInput{Records: records()})
	require.NoError(t, err)
	require.Len(t, plan.Chapters, 1)
	require.Equal(t, "Ch1", plan.Chapters[0].Title)
}
