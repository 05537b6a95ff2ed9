// Package artifactstore produces and addresses the final ZIP artifact from
// a completed job workspace.
package artifactstore

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sitebookify/sitebookify/internal/apperr"
)

// Store produces artifact.zip files under a jobs directory.
type Store struct {
	jobsDir string
}

// New returns a Store rooted at jobsDir.
func New(jobsDir string) *Store {
	return &Store{jobsDir: jobsDir}
}

// ArtifactPath returns the deterministic path of a job's artifact.
func (s *Store) ArtifactPath(jobID string) string {
	return filepath.Join(s.jobsDir, jobID, "artifact.zip")
}

// CreateZip bundles <workspaceDir>/book.md (required) and the optional
// <workspaceDir>/assets/ subtree into the job's artifact.zip. The archive
// contains exactly book.md at the root plus assets/** preserving directory
// structure and sort order; directory entries are added explicitly so
// empty directories survive; compression is deflate except for directory
// entries; file permissions 0644, directory entries 0755.
func (s *Store) CreateZip(jobID, workspaceDir string) (string, error) {
	bookMD := filepath.Join(workspaceDir, "book.md")
	if _, err := os.Stat(bookMD); err != nil {
		return "", fmt.Errorf("artifactstore: %w: book.md missing", apperr.ErrNotFound)
	}

	out := s.ArtifactPath(jobID)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("artifactstore: create dir: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("artifactstore: create zip: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	if err := addFile(zw, "book.md", bookMD); err != nil {
		return "", fmt.Errorf("artifactstore: add book.md: %w", err)
	}

	assetsDir := filepath.Join(workspaceDir, "assets")
	if info, statErr := os.Stat(assetsDir); statErr == nil && info.IsDir() {
		if err := addDirRecursive(zw, assetsDir, "assets"); err != nil {
			return "", fmt.Errorf("artifactstore: add assets: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("artifactstore: close zip: %w", err)
	}
	return out, nil
}

func addFile(zw *zip.Writer, name, diskPath string) error {
	data, err := os.ReadFile(diskPath)
	if err != nil {
		return err
	}
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	hdr.SetMode(0o644)
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// addDirRecursive walks diskDir and mirrors it under archivePrefix, sorted
// by path, adding explicit directory entries so empty directories survive.
func addDirRecursive(zw *zip.Writer, diskDir, archivePrefix string) error {
	var paths []string
	if err := filepath.WalkDir(diskDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == diskDir {
			return nil
		}
		paths = append(paths, p)
		return nil
	}); err != nil {
		return err
	}
	sort.Strings(paths)

	for _, p := range paths {
		rel, err := filepath.Rel(diskDir, p)
		if err != nil {
			return err
		}
		archiveName := archivePrefix + "/" + filepath.ToSlash(rel)
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !strings.HasSuffix(archiveName, "/") {
				archiveName += "/"
			}
			hdr := &zip.FileHeader{Name: archiveName, Method: zip.Store}
			hdr.SetMode(0o755 | os.ModeDir)
			if _, err := zw.CreateHeader(hdr); err != nil {
				return err
			}
			continue
		}
		if err := addFile(zw, archiveName, p); err != nil {
			return err
		}
	}
	return nil
}
