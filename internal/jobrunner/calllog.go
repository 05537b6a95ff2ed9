package jobrunner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sitebookify/sitebookify/internal/model"
)

var callLogMu sync.Mutex

// appendCallLogFile appends one RewriteCallRecord as a line of JSON to
// <workDir>/llm_calls.jsonl, creating it on first use. Purely
// observational: a failure here never aborts the pipeline, so callers
// ignore its error in practice.
func appendCallLogFile(_, workDir string, rec model.RewriteCallRecord) error {
	callLogMu.Lock()
	defer callLogMu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("jobrunner: marshal call record: %w", err)
	}

	path := filepath.Join(workDir, "llm_calls.jsonl")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("jobrunner: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("jobrunner: write %s: %w", path, err)
	}
	return nil
}
