// Package jsonextract pulls the outermost JSON object out of arbitrary
// command or LLM output, tolerating surrounding prose or Markdown code
// fences, and validates it against a JSON Schema before the caller
// decodes it into a concrete type.
package jsonextract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Object extracts the outermost JSON object from s: the substring running
// from the first '{' to the last '}'. Markdown code fences around the
// object, if present, are stripped first.
func Object(s string) (json.RawMessage, error) {
	s = strings.TrimSpace(s)
	if stripped := stripCodeFences(s); stripped != "" {
		s = stripped
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("jsonextract: no JSON object found in output")
	}
	return json.RawMessage(s[start : end+1]), nil
}

func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return ""
	}
	last := len(lines) - 1
	for last > 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[last]), "```") {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[1:last], "\n"))
}

// Validate compiles schemaRaw and validates doc against it. A nil or empty
// schema is treated as "no constraint" and always passes.
func Validate(schemaRaw json.RawMessage, doc json.RawMessage) error {
	if len(schemaRaw) == 0 {
		return nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaRaw)); err != nil {
		return fmt.Errorf("jsonextract: load schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("jsonextract: compile schema: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return fmt.Errorf("jsonextract: decode document: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("jsonextract: schema validation: %w", err)
	}
	return nil
}
