package rewrite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Policy governs what happens to a chunk whose rewritten output is
// missing one or more of the tokens it was sent with.
type Policy string

const (
	// PolicyStrict keeps the original (pre-rewrite) chunk whenever a
	// token goes missing. This is the default.
	PolicyStrict Policy = "strict"

	// PolicyLenient keeps the rewritten output even with missing tokens,
	// logging the loss rather than discarding the rewrite.
	PolicyLenient Policy = "lenient"
)

// ParsePolicy maps an arbitrary string to a Policy, defaulting to strict.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyLenient {
		return PolicyLenient
	}
	return PolicyStrict
}

// CallEvent reports the outcome of one backend call, for the caller to
// turn into a model.RewriteCallRecord; purely observational.
type CallEvent struct {
	Attempt     int
	InputChars  int
	OutputChars int
	Latency     time.Duration
	Success     bool
	Err         error
}

// MissingTokenEvent reports a chunk whose rewritten output dropped one or
// more expected tokens, for lenient-policy logging.
type MissingTokenEvent struct {
	Section int
	Chunk   int
	Missing []string
	Kept    bool // true if the rewrite was kept anyway (lenient policy)
}

// Options configures one page rewrite.
type Options struct {
	Backend       Backend
	MaxChunkChars int
	Retries       int
	Policy        Policy
	Instructions  string

	OnCall    func(CallEvent)
	OnMissing func(MissingTokenEvent)
}

// RewritePage rewrites body section-by-section per the protocol: split at
// level-2 headings, protect fragile spans, chunk to budget, call the
// backend, normalize/verify the response, and restore protected spans. If
// the first chunk whose rewrite is accepted begins with a level-1 heading,
// it is adopted as the page's new title and stripped from the body; later
// chunks are not checked.
func RewritePage(ctx context.Context, body string, opts Options) (newTitle string, rewritten string, err error) {
	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = 6000
	}

	sections := SplitSections(body)
	rewrittenSections := make([]string, len(sections))
	headingChecked := false

	for si, section := range sections {
		store := NewStore()
		protected := Protect(section, store)
		chunks := Chunk(protected, opts.MaxChunkChars)

		rewrittenChunks := make([]string, len(chunks))
		for ci, chunk := range chunks {
			expected := ExpectedTokens(chunk)

			output, callErr := callWithRetry(ctx, opts, chunk)
			if callErr != nil {
				rewrittenChunks[ci] = chunk
				continue
			}

			normalized := Normalize(output)
			if strings.TrimSpace(normalized) == "" {
				rewrittenChunks[ci] = chunk
				continue
			}

			missing := MissingTokens(expected, normalized)
			if len(missing) > 0 {
				kept := opts.Policy == PolicyLenient
				if opts.OnMissing != nil {
					opts.OnMissing(MissingTokenEvent{Section: si, Chunk: ci, Missing: missing, Kept: kept})
				}
				if !kept {
					rewrittenChunks[ci] = chunk
					continue
				}
			}

			if !headingChecked {
				headingChecked = true
				if title, rest, ok := stripLeadingH1(normalized); ok {
					newTitle = title
					normalized = rest
				}
			}

			rewrittenChunks[ci] = normalized
		}

		rewrittenProtected := strings.Join(rewrittenChunks, "\n")
		rewrittenSections[si] = Unprotect(rewrittenProtected, store)
	}

	return newTitle, strings.Join(rewrittenSections, "\n"), nil
}

// callWithRetry calls opts.Backend.Rewrite, retrying on transport errors
// or empty output up to opts.Retries additional times. On exhaustion it
// returns the last error so the caller retains the original chunk.
func callWithRetry(ctx context.Context, opts Options, chunk string) (string, error) {
	var result string
	attempt := 0

	err := retry.Do(
		func() error {
			attempt++
			start := time.Now()
			out, callErr := opts.Backend.Rewrite(ctx, opts.Instructions, chunk)
			latency := time.Since(start)

			success := callErr == nil && strings.TrimSpace(out) != ""
			if opts.OnCall != nil {
				opts.OnCall(CallEvent{
					Attempt: attempt, InputChars: len(chunk), OutputChars: len(out),
					Latency: latency, Success: success, Err: callErr,
				})
			}
			if callErr != nil {
				return callErr
			}
			if strings.TrimSpace(out) == "" {
				return fmt.Errorf("rewrite: empty output")
			}
			result = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(opts.Retries+1)),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return result, nil
}

// stripLeadingH1 reports whether text begins with a level-1 heading; if
// so it returns the heading text and the remainder with that line removed.
func stripLeadingH1(text string) (title, rest string, ok bool) {
	trimmed := strings.TrimLeft(text, "\n")
	if !strings.HasPrefix(trimmed, "# ") {
		return "", text, false
	}
	idx := strings.IndexByte(trimmed, '\n')
	if idx < 0 {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, "# ")), "", true
	}
	title = strings.TrimSpace(strings.TrimPrefix(trimmed[:idx], "# "))
	rest = strings.TrimLeft(trimmed[idx+1:], "\n")
	return title, rest, true
}

// Instructions builds the rewrite task instructions sent with every
// chunk: the task, the placeholder-preservation constraint, the
// requested language/tone, and the grounding-only constraint.
func Instructions(language, tone string) string {
	return fmt.Sprintf(
		"Rewrite the following Markdown section for a book chapter, in %s, with a %s tone. "+
			"Preserve every token of the exact form {{SBY_TOKEN_NNNNNN}} byte-for-byte and in relative order; "+
			"never alter, remove, reformat, or invent a token. "+
			"Use only facts present in the input; do not introduce new claims. "+
			"Return only the rewritten Markdown, nothing else.",
		language, tone,
	)
}
