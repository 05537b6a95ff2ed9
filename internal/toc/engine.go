// Package toc synthesizes a table of contents from a manifest: one
// chapter per page (noop), an external program's plan (command), or an
// LLM's plan (llm). All three validate and stamp chapter ids the same way.
package toc

import (
	"context"

	"github.com/sitebookify/sitebookify/internal/model"
)

// ManifestInput is what every Engine receives: the manifest records to
// choose from and the request's own title, for engines that want it.
type ManifestInput struct {
	RequestTitle string
	Records      []model.ManifestRecord
}

// Engine synthesizes an unvalidated, un-stamped plan from a manifest.
type Engine interface {
	Synthesize(ctx context.Context, input ManifestInput) (model.TocPlan, error)
}

// inputPage is the wire shape of one manifest record sent to command/llm
// engines: the fields a TOC synthesizer needs and nothing more.
type inputPage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	TrustTier string `json:"trust_tier,omitempty"`
}

func buildInputPages(records []model.ManifestRecord) []inputPage {
	pages := make([]inputPage, len(records))
	for i, r := range records {
		pages[i] = inputPage{ID: r.ID, URL: r.URL, Title: r.Title, Path: r.Path, TrustTier: r.TrustTier}
	}
	return pages
}

// inputPayload is the JSON object given to command/llm engines on stdin
// or as the user message, respectively.
type inputPayload struct {
	RequestTitle string      `json:"request_title,omitempty"`
	Pages        []inputPage `json:"pages"`
}

func buildPayload(input ManifestInput) inputPayload {
	return inputPayload{RequestTitle: input.RequestTitle, Pages: buildInputPages(input.Records)}
}
