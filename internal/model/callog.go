package model

import "time"

// RewriteCallRecord is one audit entry for an LLM-backed call: a TOC
// synthesis call or a rewrite call. It is write-only from the pipeline's
// perspective, appended to work/llm_calls.jsonl and never read back.
type RewriteCallRecord struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	Stage       string    `json:"stage"` // "toc" or "render"
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Attempt     int       `json:"attempt"`
	InputChars  int       `json:"input_chars"`
	OutputChars int       `json:"output_chars"`
	LatencyMS   int64     `json:"latency_ms"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
