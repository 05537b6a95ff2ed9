// Package extract implements the HTML-to-Markdown extraction stage: for
// each saved page it invokes an Extractor and writes an ExtractedPage file
// with YAML front matter followed by a Markdown body.
package extract

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sitebookify/sitebookify/internal/model"
)

const frontMatterFence = "---"

// WriteExtractedPage writes fm and body to path as a YAML front-matter
// block between "---" fences, followed by the Markdown body. It refuses
// to overwrite an existing file.
func WriteExtractedPage(path string, fm model.ExtractedFrontMatter, body string) error {
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("extract: marshal front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontMatterFence)
	sb.WriteString("\n")
	sb.Write(yamlBytes)
	sb.WriteString(frontMatterFence)
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(body))
	sb.WriteString("\n")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("extract: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("extract: write %s: %w", path, err)
	}
	return nil
}

// ReadExtractedPage parses an ExtractedPage file back into its front
// matter and body.
func ReadExtractedPage(path string) (model.ExtractedFrontMatter, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExtractedFrontMatter{}, "", fmt.Errorf("extract: read %s: %w", path, err)
	}
	fm, body, err := SplitFrontMatter(string(data))
	if err != nil {
		return model.ExtractedFrontMatter{}, "", fmt.Errorf("extract: parse %s: %w", path, err)
	}
	return fm, body, nil
}

// SplitFrontMatter separates the YAML front matter from the Markdown body
// of an ExtractedPage's raw contents.
func SplitFrontMatter(contents string) (model.ExtractedFrontMatter, string, error) {
	var fm model.ExtractedFrontMatter

	scanner := bufio.NewScanner(strings.NewReader(contents))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	if !scanner.Scan() {
		return fm, "", fmt.Errorf("extract: empty file")
	}
	if strings.TrimRight(scanner.Text(), "\r") != frontMatterFence {
		return fm, contents, nil
	}

	var yamlLines []string
	closed := false
	consumed := len(scanner.Text()) + 1
	for scanner.Scan() {
		line := scanner.Text()
		consumed += len(line) + 1
		if strings.TrimRight(line, "\r") == frontMatterFence {
			closed = true
			break
		}
		yamlLines = append(yamlLines, line)
	}
	if !closed {
		return fm, contents, nil
	}

	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &fm); err != nil {
		return fm, "", fmt.Errorf("parse front matter: %w", err)
	}

	body := contents[min(consumed, len(contents)):]
	return fm, strings.TrimLeft(body, "\n"), nil
}
