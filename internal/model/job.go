// Package model holds the data types persisted and exchanged across the
// job pipeline: Job records, start requests, and the intermediate artifacts
// each pipeline stage produces for the next.
package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sitebookify/sitebookify/internal/apperr"
)

// Status is the job lifecycle state.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Job is the persisted record of one pipeline run. Once Status is Done or
// Error it is terminal: only Message may change afterward, and only via an
// out-of-band operator edit, never by the runner itself.
type Job struct {
	JobID           string     `json:"job_id"`
	Status          Status     `json:"status"`
	ProgressPercent int        `json:"progress_percent"`
	Message         string     `json:"message"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	WorkDir         string     `json:"work_dir"`
	ArtifactPath    string     `json:"artifact_path,omitempty"`
}

// Engine names a pluggable TOC/render backend.
type Engine string

const (
	EngineNoop    Engine = "noop"
	EngineCommand Engine = "command"
	EngineLLM     Engine = "llm"
)

// ParseEngine maps an arbitrary string to a known Engine, defaulting to
// EngineNoop for anything unrecognized (per StartCrawl validation rules).
func ParseEngine(s string) Engine {
	switch Engine(s) {
	case EngineCommand:
		return EngineCommand
	case EngineLLM:
		return EngineLLM
	default:
		return EngineNoop
	}
}

// StartJobRequest is the immutable input to a job, persisted alongside the
// Job record. Exactly one of URL/Query must be set.
type StartJobRequest struct {
	URL   string `json:"url,omitempty" validate:"omitempty,http_url"`
	Query string `json:"query,omitempty" validate:"omitempty,min=1"`
	Title string `json:"title,omitempty"`

	MaxPages    int `json:"max_pages" validate:"gte=0"`
	MaxDepth    int `json:"max_depth" validate:"gte=0"`
	Concurrency int `json:"concurrency" validate:"gte=0"`
	DelayMs     int `json:"delay_ms" validate:"gte=0"`

	Language string `json:"language,omitempty"`
	Tone     string `json:"tone,omitempty"`

	TocEngine    Engine `json:"toc_engine,omitempty"`
	RenderEngine Engine `json:"render_engine,omitempty"`
}

// Default knob values applied when the corresponding field is zero-valued,
// per StartCrawl's validation contract.
const (
	DefaultMaxPages    = 200
	DefaultMaxDepth    = 8
	DefaultConcurrency = 4
	DefaultDelayMs     = 200
	DefaultLanguage    = "日本語"
	DefaultTone        = "丁寧"
)

// ApplyDefaults fills zero-valued knobs with their defaults and normalizes
// engine selectors, in place. It never touches URL/Query.
func (r *StartJobRequest) ApplyDefaults() {
	if r.MaxPages == 0 {
		r.MaxPages = DefaultMaxPages
	}
	if r.MaxDepth == 0 {
		r.MaxDepth = DefaultMaxDepth
	}
	if r.Concurrency == 0 {
		r.Concurrency = DefaultConcurrency
	}
	if r.DelayMs == 0 {
		r.DelayMs = DefaultDelayMs
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	r.TocEngine = ParseEngine(string(r.TocEngine))
	r.RenderEngine = ParseEngine(string(r.RenderEngine))
}

// Validate checks the struct-tag rules above and the "exactly one of
// URL/Query" invariant, returning an apperr.ErrInvalidArgument-wrapped
// error when either is violated. Implementations must reject ambiguous
// requests rather than silently preferring one field over the other.
func (r *StartJobRequest) Validate() error {
	if (r.URL == "") == (r.Query == "") {
		return fmt.Errorf("model: exactly one of url or query must be set: %w", apperr.ErrInvalidArgument)
	}
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("model: %w: %v", apperr.ErrInvalidArgument, err)
	}
	return nil
}
