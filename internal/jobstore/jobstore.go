// Package jobstore provides durable, atomic persistence for Job and
// StartJobRequest records, keyed by job id under a jobs/<id>/ directory.
package jobstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sitebookify/sitebookify/internal/apperr"
	"github.com/sitebookify/sitebookify/internal/model"
)

// Store is a JobStore backend. The shipped implementation is file-based;
// the interface exists so an alternate backend could be substituted
// without touching the runner or server.
type Store interface {
	Create(job *model.Job, request *model.StartJobRequest) error
	Get(jobID string) (*model.Job, bool, error)
	GetRequest(jobID string) (*model.StartJobRequest, bool, error)
	Put(job *model.Job) error
	List() ([]string, error)
}

// FS is a filesystem-backed Store rooted at <jobsDir>/<id>/{job,request}.json.
type FS struct {
	jobsDir string
}

// New returns a Store rooted at jobsDir, creating it if absent.
func New(jobsDir string) (*FS, error) {
	if err := os.MkdirAll(jobsDir, 0o755); err != nil {
		return nil, fmt.Errorf("jobstore: create jobs dir: %w", err)
	}
	return &FS{jobsDir: jobsDir}, nil
}

func (s *FS) jobDir(id string) string      { return filepath.Join(s.jobsDir, id) }
func (s *FS) jobJSONPath(id string) string  { return filepath.Join(s.jobDir(id), "job.json") }
func (s *FS) reqJSONPath(id string) string  { return filepath.Join(s.jobDir(id), "request.json") }

// Create atomically persists both records under jobs/<id>/. It fails if the
// directory already exists, per the "refuse to overwrite" invariant.
func (s *FS) Create(job *model.Job, request *model.StartJobRequest) error {
	dir := s.jobDir(job.JobID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("jobstore: job %s: %w", job.JobID, apperr.ErrAlreadyExists)
		}
		return fmt.Errorf("jobstore: create job dir: %w", err)
	}
	if err := writeJSONAtomic(s.jobJSONPath(job.JobID), job); err != nil {
		return fmt.Errorf("jobstore: write job record: %w", err)
	}
	if err := writeJSONAtomic(s.reqJSONPath(job.JobID), request); err != nil {
		return fmt.Errorf("jobstore: write request record: %w", err)
	}
	return nil
}

// Get returns the persisted Job, or ok=false if absent.
func (s *FS) Get(jobID string) (*model.Job, bool, error) {
	var job model.Job
	ok, err := readJSON(s.jobJSONPath(jobID), &job)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &job, true, nil
}

// GetRequest returns the persisted StartJobRequest, or ok=false if absent.
func (s *FS) GetRequest(jobID string) (*model.StartJobRequest, bool, error) {
	var req model.StartJobRequest
	ok, err := readJSON(s.reqJSONPath(jobID), &req)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &req, true, nil
}

// Put replaces the persisted Job record.
func (s *FS) Put(job *model.Job) error {
	if err := writeJSONAtomic(s.jobJSONPath(job.JobID), job); err != nil {
		return fmt.Errorf("jobstore: put job: %w", err)
	}
	return nil
}

// List enumerates known job ids by scanning the jobs directory. It is used
// only by operator-facing tooling, never by the pipeline itself.
func (s *FS) List() ([]string, error) {
	entries, err := os.ReadDir(s.jobsDir)
	if err != nil {
		return nil, fmt.Errorf("jobstore: list: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// writeJSONAtomic serializes v to path via write-to-temp-file + rename, so
// a concurrent reader never observes a torn write. The temp name carries a
// random suffix to avoid collisions between concurrent writers.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal: %w", err)
	}
	return true, nil
}
