package rewrite

import (
	"time"

	"github.com/sitebookify/sitebookify/internal/model"
)

// Recorder turns CallEvents into persisted model.RewriteCallRecord
// entries, stamping the fields the protocol itself does not know about
// (job id, stage, provider/model, record id).
type Recorder struct {
	JobID    string
	Stage    string
	Provider string
	Model    string

	NextID func() string
	Append func(model.RewriteCallRecord) error
}

// OnCall adapts Recorder to the Options.OnCall hook.
func (r *Recorder) OnCall(evt CallEvent) {
	if r.Append == nil {
		return
	}
	rec := model.RewriteCallRecord{
		JobID:       r.JobID,
		Stage:       r.Stage,
		Provider:    r.Provider,
		Model:       r.Model,
		Attempt:     evt.Attempt,
		InputChars:  evt.InputChars,
		OutputChars: evt.OutputChars,
		LatencyMS:   evt.Latency.Milliseconds(),
		Success:     evt.Success,
		Timestamp:   time.Now(),
	}
	if r.NextID != nil {
		rec.ID = r.NextID()
	}
	if evt.Err != nil {
		rec.Error = evt.Err.Error()
	}
	_ = r.Append(rec)
}
