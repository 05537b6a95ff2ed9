// Package jobrunner orchestrates the five-stage content pipeline for one
// job: acquisition, extraction/manifest, table-of-contents synthesis,
// book render/bundle, and EPUB packaging, persisting state transitions
// and progress checkpoints to the JobStore at each step.
package jobrunner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sitebookify/sitebookify/internal/artifactstore"
	"github.com/sitebookify/sitebookify/internal/book"
	"github.com/sitebookify/sitebookify/internal/config"
	"github.com/sitebookify/sitebookify/internal/crawl"
	"github.com/sitebookify/sitebookify/internal/epub"
	"github.com/sitebookify/sitebookify/internal/extract"
	"github.com/sitebookify/sitebookify/internal/jobstore"
	"github.com/sitebookify/sitebookify/internal/llm"
	"github.com/sitebookify/sitebookify/internal/manifest"
	"github.com/sitebookify/sitebookify/internal/model"
	"github.com/sitebookify/sitebookify/internal/querycrawl"
	"github.com/sitebookify/sitebookify/internal/rewrite"
	"github.com/sitebookify/sitebookify/internal/toc"
)

// Progress checkpoints persisted after each stage (§4.5).
const (
	progressAcquire = 5
	progressToc     = 40
	progressInit    = 55
	progressRender  = 65
	progressBundle  = 90
	progressEpub    = 95
	progressDone    = 100
)

// Runner executes the pipeline for one job at a time; it holds no
// per-job state between Run calls.
type Runner struct {
	Store     jobstore.Store
	Artifacts *artifactstore.Store
	Config    *config.Config

	// Fetcher overrides the site crawl's default HTTP fetcher; nil uses
	// crawl.NewHTTPFetcher.
	Fetcher crawl.Fetcher
	// Extractor overrides the extraction stage's default extractor; nil
	// uses extract.NewReadabilityExtractor.
	Extractor extract.Extractor
	// QueryCrawler backs the query-driven acquisition variant.
	QueryCrawler querycrawl.QueryCrawler
	// LLMClients maps provider type ("openai", "anthropic") to a
	// configured client, for the llm toc/render engines.
	LLMClients map[string]llm.Client

	// CallLogAppend persists one RewriteCallRecord; nil appends to
	// <work_dir>/llm_calls.jsonl via the default file-backed appender.
	CallLogAppend func(jobID, workDir string, rec model.RewriteCallRecord) error
}

// Run drives one job from queued to done or error, per §4.5's contract.
// It never panics or returns an error to its caller except when the job
// or its request cannot be loaded at all, or the running transition
// cannot be persisted; every stage failure is
// captured into the persisted job record instead.
func (r *Runner) Run(ctx context.Context, jobID string) error {
	job, ok, err := r.Store.Get(jobID)
	if err != nil {
		return fmt.Errorf("jobrunner: load job %s: %w", jobID, err)
	}
	if !ok {
		return fmt.Errorf("jobrunner: job %s not found", jobID)
	}
	req, ok, err := r.Store.GetRequest(jobID)
	if err != nil {
		return fmt.Errorf("jobrunner: load request %s: %w", jobID, err)
	}
	if !ok {
		return fmt.Errorf("jobrunner: request %s not found", jobID)
	}

	now := time.Now().UTC()
	job.Status = model.StatusRunning
	job.StartedAt = &now
	job.ProgressPercent = 0
	job.Message = "starting"
	if err := r.Store.Put(job); err != nil {
		return fmt.Errorf("jobrunner: persist running transition: %w", err)
	}

	if runErr := r.runStages(ctx, job, req); runErr != nil {
		r.fail(job, runErr)
		return nil
	}
	return nil
}

func (r *Runner) runStages(ctx context.Context, job *model.Job, req *model.StartJobRequest) error {
	workDir := job.WorkDir
	if _, err := os.Stat(workDir); err == nil {
		return fmt.Errorf("jobrunner: work dir %s already exists", workDir)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("jobrunner: create work dir: %w", err)
	}

	records, err := r.acquire(ctx, job, req, workDir)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	if err := r.checkpoint(job, progressAcquire, "acquired"); err != nil {
		return err
	}

	tocEngine, err := r.buildTocEngine(job, req, workDir)
	if err != nil {
		return fmt.Errorf("toc: %w", err)
	}
	synthesized, err := toc.Run(ctx, tocEngine, records, req.Title)
	if err != nil {
		return fmt.Errorf("toc: %w", err)
	}
	if err := toc.WriteYAML(filepath.Join(workDir, "toc.yaml"), synthesized); err != nil {
		return fmt.Errorf("toc: %w", err)
	}
	if err := r.checkpoint(job, progressToc, "table of contents synthesized"); err != nil {
		return err
	}

	byID := make(map[string]model.ManifestRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	bookDir := filepath.Join(workDir, "book")
	renderBackend, renderInstructions, provider, modelName, err := r.buildRenderBackend(req)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	renderRecorder := r.recorderFor(job, workDir, "render")
	renderRecorder.Provider = provider
	renderRecorder.Model = modelName
	if err := r.checkpoint(job, progressInit, "book initialized"); err != nil {
		return err
	}

	stems, err := book.Render(ctx, book.Options{
		Toc:           synthesized,
		Records:       byID,
		BookDir:       bookDir,
		RenderEngine:  req.RenderEngine,
		Backend:       renderBackend,
		Instructions:  renderInstructions,
		MaxChunkChars: r.Config.Rewrite.MaxChunkChars,
		Retries:       r.Config.Rewrite.Retries,
		Policy:        rewrite.ParsePolicy(r.Config.Rewrite.MissingTokenPolicy),
		OnCall:        renderRecorder.OnCall,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := r.checkpoint(job, progressRender, "chapters rendered"); err != nil {
		return err
	}

	if err := book.Bundle(bookDir, stems, filepath.Join(workDir, "book.md")); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}
	if err := r.checkpoint(job, progressBundle, "bundled"); err != nil {
		return err
	}

	if err := epub.Package(epub.Options{
		BookDir:    bookDir,
		OutputPath: filepath.Join(workDir, "book.epub"),
		Language:   req.Language,
	}); err != nil {
		return fmt.Errorf("epub: %w", err)
	}
	if err := r.checkpoint(job, progressEpub, "epub packaged"); err != nil {
		return err
	}

	artifactPath, err := r.Artifacts.CreateZip(job.JobID, workDir)
	if err != nil {
		return fmt.Errorf("artifact: %w", err)
	}

	finished := time.Now().UTC()
	job.Status = model.StatusDone
	job.ProgressPercent = progressDone
	job.Message = "done"
	job.ArtifactPath = artifactPath
	job.FinishedAt = &finished
	return r.Store.Put(job)
}

// acquire runs the site-crawl or query-driven acquisition variant
// selected by which of req.URL/req.Query is set, producing the manifest
// records consumed by every later stage.
func (r *Runner) acquire(ctx context.Context, job *model.Job, req *model.StartJobRequest, workDir string) ([]model.ManifestRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	extractedDir := filepath.Join(workDir, "extracted", "pages")
	manifestPath := filepath.Join(workDir, "manifest.jsonl")

	if req.Query != "" {
		result, err := querycrawl.Run(ctx, querycrawl.Options{
			Query:        req.Query,
			MaxPages:     req.MaxPages,
			SearchLimit:  req.MaxPages,
			ExtractedDir: extractedDir,
			ManifestPath: manifestPath,
			Crawler:      r.QueryCrawler,
		})
		if err != nil {
			return nil, err
		}
		return result.Manifest, nil
	}

	rawDir := filepath.Join(workDir, "raw")
	crawlResult, err := crawl.Run(ctx, crawl.Options{
		StartURL:    req.URL,
		MaxPages:    req.MaxPages,
		MaxDepth:    req.MaxDepth,
		Concurrency: req.Concurrency,
		DelayMs:     req.DelayMs,
		RawDir:      rawDir,
		Fetcher:     r.Fetcher,
	})
	if err != nil {
		return nil, err
	}

	extractor := r.Extractor
	if extractor == nil {
		extractor = extract.NewReadabilityExtractor()
	}
	if err := extract.Run(extract.Options{
		Records:      crawlResult.Records,
		ExtractedDir: extractedDir,
		Extractor:    extractor,
	}); err != nil {
		return nil, err
	}

	records, err := manifest.Build(extractedDir)
	if err != nil {
		return nil, err
	}
	if err := manifest.Write(manifestPath, records); err != nil {
		return nil, err
	}
	return records, nil
}

// checkpoint persists progress+message after a completed stage.
func (r *Runner) checkpoint(job *model.Job, progress int, message string) error {
	job.ProgressPercent = progress
	job.Message = message
	if err := r.Store.Put(job); err != nil {
		return fmt.Errorf("jobrunner: persist checkpoint %q: %w", message, err)
	}
	return nil
}

// fail transitions job to its terminal error state; it swallows any
// persistence error since the caller has nothing further to do with it.
func (r *Runner) fail(job *model.Job, cause error) {
	finished := time.Now().UTC()
	job.Status = model.StatusError
	job.Message = cause.Error()
	job.FinishedAt = &finished
	_ = r.Store.Put(job)
}

func (r *Runner) recorderFor(job *model.Job, workDir, stage string) *rewrite.Recorder {
	idSeq := 0
	appender := r.CallLogAppend
	if appender == nil {
		appender = appendCallLogFile
	}
	return &rewrite.Recorder{
		JobID:  job.JobID,
		Stage:  stage,
		NextID: func() string { idSeq++; return fmt.Sprintf("%s-%s-%d", job.JobID, stage, idSeq) },
		Append: func(rec model.RewriteCallRecord) error { return appender(job.JobID, workDir, rec) },
	}
}
