package artifactstore

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitebookify/sitebookify/internal/apperr"
)

func TestCreateZip_BookMDAndAssets(t *testing.T) {
	jobsDir := t.TempDir()
	ws := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(ws, "book.md"), []byte("# Book\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "assets", "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "assets", "a.png"), []byte("png-bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "assets", "img", "b.png"), []byte("png-bytes-2"), 0o644))

	store := New(jobsDir)
	path, err := store.CreateZip("job-1", ws)
	require.NoError(t, err)
	require.Equal(t, store.ArtifactPath("job-1"), path)

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	require.Contains(t, names, "book.md")
	require.Contains(t, names, "assets/a.png")
	require.Contains(t, names, "assets/img/")
	require.Contains(t, names, "assets/img/b.png")

	for _, f := range r.File {
		if f.Name == "book.md" {
			rc, err := f.Open()
			require.NoError(t, err)
			data := make([]byte, f.UncompressedSize64)
			_, err = rc.Read(data)
			rc.Close()
			require.NoError(t, err)
			require.Equal(t, "# Book\n", string(data))
			require.Equal(t, zip.Deflate, f.Method)
		}
		if f.Name == "assets/img/" {
			require.Equal(t, zip.Store, f.Method)
		}
	}
}

func TestCreateZip_MissingBookMD(t *testing.T) {
	jobsDir := t.TempDir()
	ws := t.TempDir()

	store := New(jobsDir)
	_, err := store.CreateZip("job-1", ws)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestArtifactPath_Deterministic(t *testing.T) {
	store := New("/tmp/jobs")
	require.Equal(t, "/tmp/jobs/job-1/artifact.zip", store.ArtifactPath("job-1"))
}
