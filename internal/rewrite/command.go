package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// commandRequest is the JSON payload piped to the external program's
// stdin: the rewrite instructions and the chunk to rewrite.
type commandRequest struct {
	Instructions string `json:"instructions"`
	Text         string `json:"text"`
}

// CommandBackend shells out to an external program per chunk: the
// request is written as JSON to stdin, and the program's entire stdout,
// with surrounding whitespace trimmed, is taken as the rewritten chunk.
type CommandBackend struct {
	Name string
	Args []string
}

// NewCommandBackend returns a Backend that runs name with args.
func NewCommandBackend(name string, args ...string) *CommandBackend {
	return &CommandBackend{Name: name, Args: args}
}

// Rewrite implements Backend.
func (c *CommandBackend) Rewrite(ctx context.Context, instructions, text string) (string, error) {
	payload, err := json.Marshal(commandRequest{Instructions: instructions, Text: text})
	if err != nil {
		return "", fmt.Errorf("rewrite: marshal command request: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("rewrite: command %s failed: %w: %s", c.Name, err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}
