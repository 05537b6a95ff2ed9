package toc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sitebookify/sitebookify/internal/jsonextract"
	"github.com/sitebookify/sitebookify/internal/model"
)

// CommandEngine runs an external program, feeding it the manifest-derived
// input JSON on stdin and also via a temp file (for programs that prefer
// file I/O over stdio), and reads its plan from stdout.
type CommandEngine struct {
	Name   string
	Args   []string
	Prompt string
}

// Synthesize implements Engine.
func (c CommandEngine) Synthesize(ctx context.Context, input ManifestInput) (model.TocPlan, error) {
	payload, err := json.Marshal(buildPayload(input))
	if err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: marshal command input: %w", err)
	}

	dir, err := os.MkdirTemp("", "sitebookify-toc-*")
	if err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "input.json")
	outputPath := filepath.Join(dir, "output.json")
	if err := os.WriteFile(inputPath, payload, 0o644); err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: write command input: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Env = append(os.Environ(),
		"SITEBOOKIFY_TOC_INPUT_PATH="+inputPath,
		"SITEBOOKIFY_TOC_OUTPUT_PATH="+outputPath,
		"SITEBOOKIFY_TOC_PROMPT="+c.Prompt,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: command %s failed: %w: %s", c.Name, err, stderr.String())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		if data, readErr := os.ReadFile(outputPath); readErr == nil {
			out = strings.TrimSpace(string(data))
		}
	}

	obj, err := jsonextract.Object(out)
	if err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: command output: %w", err)
	}

	var plan model.TocPlan
	if err := json.Unmarshal(obj, &plan); err != nil {
		return model.TocPlan{}, fmt.Errorf("toc: parse command plan: %w", err)
	}
	return plan, nil
}
