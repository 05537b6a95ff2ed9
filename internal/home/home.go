// Package home resolves the base data directory sitebookify persists jobs
// and configuration under.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name of the sitebookify home directory.
	DefaultDirName = ".sitebookify"

	// JobsDirName is the subdirectory holding every job's workspace.
	JobsDirName = "jobs"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the sitebookify home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path. If path is empty, it uses the
// default (~/.sitebookify).
func New(path string) (*Dir, error) {
	if path == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("home: get user home directory: %w", err)
		}
		path = filepath.Join(h, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string { return d.path }

// JobsPath returns <home>/jobs, the root under which every job's
// workspace (job.json, request.json, artifact.zip, work/) lives.
func (d *Dir) JobsPath() string { return filepath.Join(d.path, JobsDirName) }

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string { return filepath.Join(d.path, ConfigFileName) }

// EnsureExists creates the home and jobs directories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.JobsPath(), 0o755); err != nil {
		return fmt.Errorf("home: create jobs directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
