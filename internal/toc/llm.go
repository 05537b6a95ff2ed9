package toc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/sitebookify/sitebookify/internal/jsonextract"
	"github.com/sitebookify/sitebookify/internal/llm"
	"github.com/sitebookify/sitebookify/internal/model"
)

// CallObserver is notified of each LLM attempt, success or failure, so the
// caller can append a model.RewriteCallRecord.
type CallObserver func(attempt int, inputChars, outputChars int, latency time.Duration, success bool, callErr error)

// LLMEngine submits the manifest-derived input JSON plus instructions to a
// configured chat backend and parses its response as a TocPlan.
type LLMEngine struct {
	Client       llm.Client
	Model        string
	Instructions string
	Retries      int
	Schema       json.RawMessage

	OnCall CallObserver
}

// Synthesize implements Engine.
func (e LLMEngine) Synthesize(ctx context.Context, input ManifestInput) (model.TocPlan, error) {
	payload, err := json.Marshal(buildPayload(input))
	if err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: marshal llm input: %w", err)
	}

	instructions := e.Instructions
	if instructions == "" {
		instructions = defaultTocInstructions
	}

	var out string
	attempt := 0
	retryErr := retry.Do(
		func() error {
			attempt++
			start := time.Now()
			result, callErr := e.Client.Chat(ctx, llm.ChatRequest{
				Model: e.Model,
				Messages: []llm.Message{
					{Role: "system", Content: instructions},
					{Role: "user", Content: string(payload)},
				},
				ResponseFormat: &llm.ResponseFormat{Name: "toc_plan", Schema: e.Schema},
			})
			latency := time.Since(start)
			success := callErr == nil && strings.TrimSpace(result.Content) != ""
			if e.OnCall != nil {
				e.OnCall(attempt, len(payload), len(result.Content), latency, success, callErr)
			}
			if callErr != nil {
				return callErr
			}
			if strings.TrimSpace(result.Content) == "" {
				return fmt.Errorf("toc: empty llm response")
			}
			out = result.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(e.Retries+1)),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if retryErr != nil {
		return model.TocPlan{}, fmt.Errorf("toc: llm call: %w", retryErr)
	}

	obj, err := jsonextract.Object(out)
	if err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: llm output: %w", err)
	}
	if err := jsonextract.Validate(e.Schema, obj); err != nil {
		return model.TocPlan{}, err
	}

	var plan model.TocPlan
	if err := json.Unmarshal(obj, &plan); err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: parse llm plan: %w", err)
	}
	return plan, nil
}

const defaultTocInstructions = `You are organizing a crawled documentation site into a book's table of contents.
Given a JSON object with "pages" (each having id, url, title, path, optional trust_tier),
group pages into chapters. Return a single JSON object: {"book_title": "...", "chapters": [{"title": "...", "sources": ["<page id>", ...], "intent": "...", "reader_gains": ["..."]}]}.
Every "sources" value must be a page id from the input. Every page should usually appear in exactly one chapter; omitting a page is allowed but should be rare.
Return only the JSON object, nothing else.`

// PlanSchema is the JSON Schema a TOC plan must validate against before
// it is parsed; used by LLMEngine and available to CommandEngine callers
// that want to validate before trusting a command's output.
var PlanSchema = json.RawMessage(`{
  "type": "object",
  "required": ["chapters"],
  "properties": {
    "book_title": {"type": "string"},
    "chapters": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "sources"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "sources": {"type": "array", "items": {"type": "string"}, "minItems": 1},
          "intent": {"type": "string"},
          "reader_gains": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`)
