package jobrunner

import (
	"fmt"
	"time"

	"github.com/sitebookify/sitebookify/internal/llm"
	"github.com/sitebookify/sitebookify/internal/model"
	"github.com/sitebookify/sitebookify/internal/rewrite"
	"github.com/sitebookify/sitebookify/internal/toc"
)

// providerOrder is the preference order used when a request's engine
// selector leaves the backing provider unspecified.
var providerOrder = []string{"openai", "anthropic"}

// pickClient returns the first configured client in providerOrder, or any
// remaining client if none of the preferred names are present.
func pickClient(clients map[string]llm.Client) (llm.Client, string, error) {
	for _, name := range providerOrder {
		if c, ok := clients[name]; ok {
			return c, name, nil
		}
	}
	for name, c := range clients {
		return c, name, nil
	}
	return nil, "", fmt.Errorf("no llm client configured")
}

// buildTocEngine constructs the toc.Engine selected by req.TocEngine,
// wiring the command/llm variants to this process's configuration.
func (r *Runner) buildTocEngine(job *model.Job, req *model.StartJobRequest, workDir string) (toc.Engine, error) {
	switch req.TocEngine {
	case model.EngineCommand:
		cmd := r.Config.Commands.TocCommand
		if len(cmd) == 0 {
			return nil, fmt.Errorf("no toc command configured")
		}
		return toc.CommandEngine{Name: cmd[0], Args: cmd[1:]}, nil

	case model.EngineLLM:
		client, provider, err := pickClient(r.LLMClients)
		if err != nil {
			return nil, err
		}
		appender := r.CallLogAppend
		if appender == nil {
			appender = appendCallLogFile
		}
		idSeq := 0
		return toc.LLMEngine{
			Client:  client,
			Schema:  toc.PlanSchema,
			Retries: r.Config.Rewrite.Retries,
			OnCall: func(attempt, inputChars, outputChars int, latency time.Duration, success bool, callErr error) {
				idSeq++
				rec := model.RewriteCallRecord{
					ID:          fmt.Sprintf("%s-toc-%d", job.JobID, idSeq),
					JobID:       job.JobID,
					Stage:       "toc",
					Provider:    provider,
					Attempt:     attempt,
					InputChars:  inputChars,
					OutputChars: outputChars,
					LatencyMS:   latency.Milliseconds(),
					Success:     success,
					Timestamp:   time.Now(),
				}
				if callErr != nil {
					rec.Error = callErr.Error()
				}
				_ = appender(job.JobID, workDir, rec)
			},
		}, nil

	default:
		return toc.NoopEngine{}, nil
	}
}

// buildRenderBackend constructs the rewrite.Backend selected by
// req.RenderEngine, returning nil (no rewrite) for noop, plus the
// instructions to send and the provider name used (for call-log
// stamping; empty for noop and command). The returned model name is
// always empty.
func (r *Runner) buildRenderBackend(req *model.StartJobRequest) (backend rewrite.Backend, instructions, provider, modelName string, err error) {
	switch req.RenderEngine {
	case model.EngineCommand:
		cmd := r.Config.Commands.RenderCommand
		if len(cmd) == 0 {
			return nil, "", "", "", fmt.Errorf("no render command configured")
		}
		return rewrite.NewCommandBackend(cmd[0], cmd[1:]...), rewrite.Instructions(req.Language, req.Tone), "", "", nil

	case model.EngineLLM:
		client, name, pickErr := pickClient(r.LLMClients)
		if pickErr != nil {
			return nil, "", "", "", pickErr
		}
		return rewrite.NewLLMBackend(client, ""), rewrite.Instructions(req.Language, req.Tone), name, "", nil

	default:
		return nil, "", "", "", nil
	}
}
