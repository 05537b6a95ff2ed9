package querycrawl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitebookify/sitebookify/internal/llm"
)

type fakeLLMClient struct {
	responses []string
	calls     int
}

func (f *fakeLLMClient) Name() string { return "fake" }

func (f *fakeLLMClient) Chat(_ context.Context, _ llm.ChatRequest) (llm.ChatResult, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.responses) {
		return llm.ChatResult{Content: `{"sources":[]}`}, nil
	}
	return llm.ChatResult{Content: f.responses[idx]}, nil
}

func TestLLMCrawlerCollectsAcrossRounds(t *testing.T) {
	client := &fakeLLMClient{responses: []string{
		`{"sources":[{"URL":"https://example.com/1","Content":"one"},{"URL":"https://example.com/2","Content":"two"}]}`,
		`{"sources":[{"URL":"https://example.com/3","Content":"three"}]}`,
	}}
	crawler := LLMCrawler{Client: client, Model: "test-model"}

	sources, err := crawler.Crawl(context.Background(), CrawlQuery{Query: "widgets", MaxPages: 3, SearchLimit: 2})
	require.NoError(t, err)
	require.Len(t, sources, 3)
	require.Equal(t, 2, client.calls)
}

func TestLLMCrawlerStopsWhenRoundIsEmpty(t *testing.T) {
	client := &fakeLLMClient{responses: []string{`{"sources":[]}`}}
	crawler := LLMCrawler{Client: client, Model: "test-model"}

	sources, err := crawler.Crawl(context.Background(), CrawlQuery{Query: "widgets", MaxPages: 10, SearchLimit: 5})
	require.NoError(t, err)
	require.Empty(t, sources)
}
