package rewrite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtectUnprotectRoundTrips(t *testing.T) {
	body := "See `inline code` and [a link](https://example.com/path?x=1) and <https://example.com/auto> plus bare https://example.com/bare text.\n\n```go\nfunc f() {}\n```\n"

	store := NewStore()
	protected := Protect(body, store)

	require.NotContains(t, protected, "inline code")
	require.NotContains(t, protected, "https://example.com")
	require.Contains(t, protected, "{{SBY_TOKEN_000000}}")

	restored := Unprotect(protected, store)
	require.Equal(t, body, restored)
}

func TestChunkNeverSplitsAToken(t *testing.T) {
	store := NewStore()
	tok := store.Protect(strings.Repeat("x", 50))
	line := strings.Repeat("a", 10) + tok + strings.Repeat("b", 10)

	chunks := Chunk(line, 15)
	joined := strings.Join(chunks, "")
	require.Equal(t, line, joined)

	for _, c := range chunks {
		if strings.Contains(c, "SBY_TOKEN") {
			require.Contains(t, c, tok, "token must appear whole in a single chunk")
		}
	}
}

func TestNormalizeCoercesMalformedTokens(t *testing.T) {
	require.Equal(t, "before {{SBY_TOKEN_000003}} after", Normalize("before SBY_TOKEN_3 after"))
	require.Equal(t, "{{SBY_TOKEN_000012}}", Normalize("{SBY_TOKEN_12}"))
	require.Equal(t, "{{SBY_TOKEN_000000}}", Normalize("{{ SBY_TOKEN_0 }}"))
}

func TestMissingTokensDetectsDropped(t *testing.T) {
	expected := ExpectedTokens("{{SBY_TOKEN_000000}} and {{SBY_TOKEN_000001}}")
	require.Len(t, expected, 2)

	missing := MissingTokens(expected, "only {{SBY_TOKEN_000000}} survived")
	require.Equal(t, []string{"{{SBY_TOKEN_000001}}"}, missing)

	require.Empty(t, MissingTokens(expected, "{{SBY_TOKEN_000001}} {{SBY_TOKEN_000000}}"))
}

func TestSplitSectionsIgnoresFencedHeadings(t *testing.T) {
	body := "Intro text.\n\n## First\n\nbody one\n\n```md\n## not a real heading\n```\n\n## Second\n\nbody two\n"

	sections := SplitSections(body)
	require.Len(t, sections, 3)
	require.True(t, strings.HasPrefix(sections[1], "## First"))
	require.Contains(t, sections[1], "## not a real heading")
	require.True(t, strings.HasPrefix(sections[2], "## Second"))
}

func TestRewritePagePreservesTokensAndAdoptsTitle(t *testing.T) {
	backend := BackendFunc(func(_ context.Context, _ string, text string) (string, error) {
		if strings.Contains(text, "Intro") {
			return "# New Title\n\nRewritten " + text, nil
		}
		return "Rewritten: " + text, nil
	})

	body := "Intro paragraph with a [link](https://example.com/x) and `code`.\n\n## Details\n\nMore `code` here.\n"

	title, out, err := RewritePage(context.Background(), body, Options{
		Backend:       backend,
		MaxChunkChars: 6000,
		Retries:       1,
		Policy:        PolicyStrict,
		Instructions:  Instructions("English", "neutral"),
	})
	require.NoError(t, err)
	require.Equal(t, "New Title", title)
	require.Contains(t, out, "https://example.com/x")
	require.Contains(t, out, "`code`")
	require.Contains(t, out, "## Details")
	require.NotContains(t, out, "SBY_TOKEN")
}

func TestRewritePageStrictPolicyKeepsOriginalOnMissingToken(t *testing.T) {
	backend := BackendFunc(func(_ context.Context, _ string, _ string) (string, error) {
		return "a rewrite that drops every placeholder", nil
	})

	body := "Body with a [link](https://example.com/y).\n"
	var missingEvents []MissingTokenEvent

	_, out, err := RewritePage(context.Background(), body, Options{
		Backend:       backend,
		MaxChunkChars: 6000,
		Retries:       0,
		Policy:        PolicyStrict,
		Instructions:  "rewrite",
		OnMissing:     func(e MissingTokenEvent) { missingEvents = append(missingEvents, e) },
	})
	require.NoError(t, err)
	require.Contains(t, out, "https://example.com/y")
	require.NotEmpty(t, missingEvents)
	require.False(t, missingEvents[0].Kept)
}

func TestRewritePageLenientPolicyKeepsRewriteDespiteMissingToken(t *testing.T) {
	backend := BackendFunc(func(_ context.Context, _ string, _ string) (string, error) {
		return "a rewrite that drops every placeholder", nil
	})

	body := "Body with a [link](https://example.com/z).\n"

	_, out, err := RewritePage(context.Background(), body, Options{
		Backend:       backend,
		MaxChunkChars: 6000,
		Retries:       0,
		Policy:        PolicyLenient,
		Instructions:  "rewrite",
	})
	require.NoError(t, err)
	require.Contains(t, out, "drops every placeholder")
	require.NotContains(t, out, "https://example.com/z")
}

func TestRewritePageHeadingSplitPagingKeepsSectionsIndependent(t *testing.T) {
	calls := 0
	backend := BackendFunc(func(_ context.Context, _ string, text string) (string, error) {
		calls++
		return "Rewritten[" + text + "]", nil
	})

	body := "Preamble.\n\n## Alpha\n\nalpha body\n\n## Beta\n\nbeta body\n"

	_, out, err := RewritePage(context.Background(), body, Options{
		Backend:       backend,
		MaxChunkChars: 6000,
		Retries:       0,
		Policy:        PolicyStrict,
		Instructions:  "rewrite",
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Contains(t, out, "## Alpha")
	require.Contains(t, out, "## Beta")
}

func TestCommandBackendRoundTripsThroughStdio(t *testing.T) {
	backend := NewCommandBackend("cat")
	out, err := backend.Rewrite(context.Background(), "ignored", "hello from stdin")
	require.NoError(t, err)
	require.Contains(t, out, "hello from stdin")
}
