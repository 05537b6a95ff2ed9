package toc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sitebookify/sitebookify/internal/model"
)

// WriteYAML serializes a synthesized Toc to path as YAML. It refuses to
// overwrite an existing file.
func WriteYAML(path string, t model.Toc) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("toc: marshal: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("toc: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("toc: write %s: %w", path, err)
	}
	return nil
}

// ReadYAML parses a Toc previously written by WriteYAML.
func ReadYAML(path string) (model.Toc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Toc{}, fmt.Errorf("toc: read %s: %w", path, err)
	}
	var t model.Toc
	if err := yaml.Unmarshal(data, &t); err != nil {
		return model.Toc{}, fmt.Errorf("toc: parse %s: %w", path, err)
	}
	return t, nil
}
