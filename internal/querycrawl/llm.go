package querycrawl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/sitebookify/sitebookify/internal/jsonextract"
	"github.com/sitebookify/sitebookify/internal/llm"
)

// CallObserver is notified of each LLM round, for call-record emission.
type CallObserver func(attempt int, inputChars, outputChars int, latency time.Duration, success bool, callErr error)

// LLMCrawler drives a configured chat backend to propose candidate
// sources for a topical query, one round per up-to-SearchLimit batch,
// until MaxPages sources are collected or the wall-clock budget expires.
type LLMCrawler struct {
	Client  llm.Client
	Model   string
	Retries int
	// Budget bounds the crawler's total wall-clock time across rounds; the
	// zero value means no extra bound beyond ctx's own deadline.
	Budget time.Duration

	OnCall CallObserver
}

// Crawl implements QueryCrawler.
func (c LLMCrawler) Crawl(ctx context.Context, q CrawlQuery) ([]QuerySource, error) {
	if c.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Budget)
		defer cancel()
	}

	searchLimit := q.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 10
	}
	maxPages := q.MaxPages
	if maxPages <= 0 {
		maxPages = 20
	}

	var sources []QuerySource
	seen := map[string]bool{}

	for len(sources) < maxPages {
		if err := ctx.Err(); err != nil {
			break
		}
		remaining := maxPages - len(sources)
		limit := searchLimit
		if remaining < limit {
			limit = remaining
		}

		batch, err := c.round(ctx, q.Query, limit, seen)
		if err != nil {
			if len(sources) > 0 {
				break
			}
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, s := range batch {
			if seen[s.URL] {
				continue
			}
			seen[s.URL] = true
			sources = append(sources, s)
		}
	}

	return sources, nil
}

func (c LLMCrawler) round(ctx context.Context, query string, limit int, exclude map[string]bool) ([]QuerySource, error) {
	excluded := make([]string, 0, len(exclude))
	for u := range exclude {
		excluded = append(excluded, u)
	}

	reqPayload, err := json.Marshal(struct {
		Query       string   `json:"query"`
		SearchLimit int      `json:"search_limit"`
		Exclude     []string `json:"exclude_urls,omitempty"`
	}{Query: query, SearchLimit: limit, Exclude: excluded})
	if err != nil {
		return nil, fmt.Errorf("querycrawl: marshal round input: %w", err)
	}

	var out string
	attempt := 0
	retryErr := retry.Do(
		func() error {
			attempt++
			start := time.Now()
			result, callErr := c.Client.Chat(ctx, llm.ChatRequest{
				Model: c.Model,
				Messages: []llm.Message{
					{Role: "system", Content: deepCrawlInstructions},
					{Role: "user", Content: string(reqPayload)},
				},
				ResponseFormat: &llm.ResponseFormat{Name: "query_sources", Schema: SourcesSchema},
			})
			latency := time.Since(start)
			success := callErr == nil && strings.TrimSpace(result.Content) != ""
			if c.OnCall != nil {
				c.OnCall(attempt, len(reqPayload), len(result.Content), latency, success, callErr)
			}
			if callErr != nil {
				return callErr
			}
			if strings.TrimSpace(result.Content) == "" {
				return fmt.Errorf("querycrawl: empty llm response")
			}
			out = result.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.Retries+1)),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if retryErr != nil {
		return nil, fmt.Errorf("querycrawl: llm call: %w", retryErr)
	}

	obj, err := jsonextract.Object(out)
	if err != nil {
		return nil, fmt.Errorf("querycrawl: llm output: %w", err)
	}
	if err := jsonextract.Validate(SourcesSchema, obj); err != nil {
		return nil, err
	}

	var parsed struct {
		Sources []QuerySource `json:"sources"`
	}
	if err := json.Unmarshal(obj, &parsed); err != nil {
		return nil, fmt.Errorf("querycrawl: parse llm sources: %w", err)
	}
	return parsed.Sources, nil
}

const deepCrawlInstructions = `You are a research assistant locating authoritative sources on a topic.
Given a JSON object with "query", "search_limit", and optionally "exclude_urls" (already-seen URLs to skip),
return up to search_limit new candidate sources as a JSON object:
{"sources": [{"URL": "...", "Content": "<the page's content in Markdown>", "TrustTier": "primary|secondary|community", "Title": "..."}]}.
Never repeat a URL from exclude_urls. Return only the JSON object, nothing else.`

// SourcesSchema validates one round's LLM response.
var SourcesSchema = json.RawMessage(`{
  "type": "object",
  "required": ["sources"],
  "properties": {
    "sources": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["URL", "Content"],
        "properties": {
          "URL": {"type": "string", "minLength": 1},
          "Content": {"type": "string"},
          "TrustTier": {"type": "string"},
          "Title": {"type": "string"}
        }
      }
    }
  }
}`)
