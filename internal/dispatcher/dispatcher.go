// Package dispatcher routes a newly created job id to either the
// in-process queue or a remote worker over HTTP.
package dispatcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sitebookify/sitebookify/internal/queue"
)

// ExecutionMode selects how a dispatched job actually runs.
type ExecutionMode string

const (
	ModeInProcess ExecutionMode = "in_process"
	ModeWorker    ExecutionMode = "worker"
)

// ParseExecutionMode parses the SITEBOOKIFY_EXECUTION_MODE value. An empty
// value means in-process; an unrecognized value is an error.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeInProcess):
		return ModeInProcess, nil
	case string(ModeWorker):
		return ModeWorker, nil
	default:
		return "", fmt.Errorf("dispatcher: unknown execution mode %q", s)
	}
}

// ExecutionModeFromEnv reads SITEBOOKIFY_EXECUTION_MODE.
func ExecutionModeFromEnv() (ExecutionMode, error) {
	return ParseExecutionMode(os.Getenv("SITEBOOKIFY_EXECUTION_MODE"))
}

// Dispatcher hands a job id off to run, either in-process or remotely.
// Dispatch never retries; callers treat a dispatch failure as a
// job-creation failure.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID string) error
}

// InProcess dispatches onto an InProcessQueue, invoking run for the job id.
type InProcess struct {
	Queue *queue.InProcessQueue
	Run   func(ctx context.Context, jobID string)
}

// Dispatch admits the job onto the in-process queue.
func (d *InProcess) Dispatch(ctx context.Context, jobID string) error {
	d.Queue.Spawn(ctx, func(ctx context.Context) { d.Run(ctx, jobID) })
	return nil
}

// Worker dispatches to a remote worker host over HTTP.
type Worker struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

// WorkerFromEnv builds a Worker from SITEBOOKIFY_WORKER_URL and
// SITEBOOKIFY_WORKER_AUTH_TOKEN, both required.
func WorkerFromEnv() (*Worker, error) {
	base := os.Getenv("SITEBOOKIFY_WORKER_URL")
	if base == "" {
		return nil, fmt.Errorf("dispatcher: SITEBOOKIFY_WORKER_URL is required for worker mode")
	}
	token := os.Getenv("SITEBOOKIFY_WORKER_AUTH_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("dispatcher: SITEBOOKIFY_WORKER_AUTH_TOKEN is required for worker mode")
	}
	return &Worker{BaseURL: strings.TrimRight(base, "/"), AuthToken: token, HTTPClient: http.DefaultClient}, nil
}

// Dispatch POSTs to {base}/internal/jobs/{id}/run with bearer auth. 2xx
// (including 202) is success; any other status is a dispatch failure
// carrying the response status and body, never swallowed.
func (w *Worker) Dispatch(ctx context.Context, jobID string) error {
	url := fmt.Sprintf("%s/internal/jobs/%s/run", w.BaseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return fmt.Errorf("dispatcher: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.AuthToken)

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("dispatcher: worker request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("dispatcher: worker dispatch failed: status=%d body=%s", resp.StatusCode, string(body))
}
