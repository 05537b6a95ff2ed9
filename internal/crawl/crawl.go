// Package crawl implements the scoped site-crawl acquisition front-end:
// bounded breadth-first traversal of an origin/path-prefix scope, saving
// HTML pages and a sorted crawl log.
package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sitebookify/sitebookify/internal/model"
)

// Options configures one crawl run.
type Options struct {
	StartURL    string
	MaxPages    int
	MaxDepth    int
	Concurrency int
	DelayMs     int

	// RawDir is the workspace directory records are written under:
	// <RawDir>/html/... and <RawDir>/crawl.jsonl.
	RawDir string

	Fetcher Fetcher
}

// Result is the outcome of a crawl run.
type Result struct {
	EffectiveStartURL string
	Records           []model.CrawlRecord
}

type task struct {
	url   *url.URL
	depth int
}

// Run executes the BFS crawl described by opts and writes its outputs
// under opts.RawDir. Network errors for individual pages are recorded
// with their HTTP status (or omitted raw_html_path); the crawl succeeds
// as long as the crawl log itself is produced.
func Run(ctx context.Context, opts Options) (Result, error) {
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil)
	}

	startURL, err := ResolveStartURL(ctx, opts.StartURL, fetcher)
	if err != nil {
		return Result{}, fmt.Errorf("crawl: resolve start url: %w", err)
	}
	scope := ScopeFromStartURL(startURL)

	limiter := rate.NewLimiter(rate.Every(time.Duration(opts.DelayMs)*time.Millisecond), 1)
	if opts.DelayMs <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	var (
		mu       sync.Mutex
		visited  = map[string]bool{}
		records  []model.CrawlRecord
		enqueued int
	)

	queue := make(chan task, 1024)
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	var pending sync.WaitGroup

	done := make(chan struct{})
	go func() {
		pending.Wait()
		close(done)
	}()

	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for {
				select {
				case t, ok := <-queue:
					if !ok {
						return nil
					}
					processOne(gctx, fetcher, limiter, scope, opts, t, &mu, visited, &records, &enqueued, queue, &pending)
					pending.Done()
				case <-done:
					return nil
				case <-gctx.Done():
					return nil
				}
			}
		})
	}

	pending.Add(1)
	visited[CanonicalURL(startURL)] = true
	enqueued = 1
	queue <- task{url: startURL, depth: 0}

	<-done
	close(queue)
	_ = g.Wait()

	mu.Lock()
	sort.Slice(records, func(i, j int) bool { return records[i].NormalizedURL < records[j].NormalizedURL })
	out := make([]model.CrawlRecord, len(records))
	copy(out, records)
	mu.Unlock()

	if err := writeCrawlLog(opts.RawDir, out); err != nil {
		return Result{}, err
	}

	return Result{EffectiveStartURL: startURL.String(), Records: out}, nil
}

func processOne(
	ctx context.Context,
	fetcher Fetcher,
	limiter *rate.Limiter,
	scope Scope,
	opts Options,
	t task,
	mu *sync.Mutex,
	visited map[string]bool,
	records *[]model.CrawlRecord,
	enqueued *int,
	queue chan task,
	pending *sync.WaitGroup,
) {
	mu.Lock()
	overBudget := len(*records) >= opts.MaxPages
	mu.Unlock()
	if overBudget {
		return
	}

	if err := limiter.Wait(ctx); err != nil {
		return
	}

	res, fetchErr := fetcher.Fetch(ctx, t.url.String())

	rec := model.CrawlRecord{
		URL:           t.url.String(),
		NormalizedURL: NormalizeURL(t.url),
		Depth:         t.depth,
		Status:        res.StatusCode,
		RetrievedAt:   time.Now().UTC(),
	}

	if fetchErr != nil {
		mu.Lock()
		*records = append(*records, rec)
		mu.Unlock()
		return
	}

	isHTML := LooksLikeHTML(res.Body)
	if isHTML && (res.StatusCode >= 200 && res.StatusCode < 300) {
		if p, err := saveHTML(opts.RawDir, t.url, res.Body); err == nil {
			rec.RawHTMLPath = p
		}
	}

	mu.Lock()
	*records = append(*records, rec)
	mu.Unlock()

	if !isHTML || t.depth >= opts.MaxDepth {
		return
	}
	if !scope.IsInScope(t.url) {
		return
	}

	for _, link := range DiscoverLinks(t.url, res.Body) {
		if !scope.IsInScope(link) {
			continue
		}
		key := CanonicalURL(link)

		mu.Lock()
		if visited[key] || *enqueued >= opts.MaxPages {
			mu.Unlock()
			continue
		}
		visited[key] = true
		*enqueued++
		mu.Unlock()

		pending.Add(1)
		select {
		case queue <- task{url: link, depth: t.depth + 1}:
		case <-ctx.Done():
			pending.Done()
		}
	}
}

func saveHTML(rawDir string, u *url.URL, body []byte) (string, error) {
	rel, err := RawHTMLPath(u)
	if err != nil {
		return "", err
	}
	full := filepath.Join(rawDir, "html", rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, body, 0o644); err != nil {
		return "", err
	}
	return full, nil
}

func writeCrawlLog(rawDir string, records []model.CrawlRecord) error {
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return fmt.Errorf("crawl: create raw dir: %w", err)
	}
	path := filepath.Join(rawDir, "crawl.jsonl")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("crawl: create crawl.jsonl: %w", err)
	}
	defer f.Close()

	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("crawl: marshal record: %w", err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("crawl: write crawl.jsonl: %w", err)
		}
	}
	return nil
}

