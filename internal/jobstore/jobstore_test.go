package jobstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sitebookify/sitebookify/internal/apperr"
	"github.com/sitebookify/sitebookify/internal/model"
)

func TestFS_CreateGetPut(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "jobs"))
	require.NoError(t, err)

	job := &model.Job{
		JobID:     "job-1",
		Status:    model.StatusQueued,
		CreatedAt: time.Now().UTC(),
		WorkDir:   filepath.Join(dir, "jobs", "job-1", "work"),
	}
	req := &model.StartJobRequest{URL: "http://example.com/"}
	req.ApplyDefaults()

	require.NoError(t, store.Create(job, req))

	got, ok, err := store.Get("job-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.StatusQueued, got.Status)

	gotReq, ok, err := store.GetRequest("job-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "http://example.com/", gotReq.URL)
	require.Equal(t, model.DefaultMaxPages, gotReq.MaxPages)

	got.Status = model.StatusRunning
	got.Message = "starting"
	require.NoError(t, store.Put(got))

	reloaded, ok, err := store.Get("job-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.StatusRunning, reloaded.Status)
	require.Equal(t, "starting", reloaded.Message)
}

func TestFS_CreateRefusesExistingID(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "jobs"))
	require.NoError(t, err)

	job := &model.Job{JobID: "dup", Status: model.StatusQueued, CreatedAt: time.Now().UTC()}
	req := &model.StartJobRequest{URL: "http://example.com/"}

	require.NoError(t, store.Create(job, req))
	err = store.Create(job, req)
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestFS_GetAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "jobs"))
	require.NoError(t, err)

	job, ok, err := store.Get("nope")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, job)
}

func TestFS_List(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "jobs"))
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		job := &model.Job{JobID: id, Status: model.StatusQueued, CreatedAt: time.Now().UTC()}
		req := &model.StartJobRequest{URL: "http://example.com/"}
		require.NoError(t, store.Create(job, req))
	}

	ids, err := store.List()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}
