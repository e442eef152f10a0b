package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing document"},
		{StatusClassifying, "classifying fragments"},
		{StatusStoring, "storing outline"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
	if !job.Status.Done() {
		t.Error("expected completed to be terminal")
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusQueued, StatusParsing, StatusClassifying, StatusStoring} {
		if s.Done() {
			t.Errorf("expected %q not terminal", s)
		}
	}
	if !StatusFailed.Done() {
		t.Error("expected failed to be terminal")
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("", "report.pdf", []byte("hello world"))
	if job.ID == "" || job.DocID == "" {
		t.Fatalf("expected generated ids, got %q / %q", job.ID, job.DocID)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected queued, got %q", job.Status)
	}
	if job.ContentHash != "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9" {
		t.Errorf("unexpected content hash %q", job.ContentHash)
	}
	if string(job.FileData()) != "hello world" {
		t.Errorf("expected file data kept")
	}

	named := NewJob("my-doc", "a.txt", nil)
	if named.DocID != "my-doc" {
		t.Errorf("expected caller doc id, got %q", named.DocID)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("parse failed")
	job.AddError("store failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "parse failed" {
		t.Errorf("expected first error %q, got %q", "parse failed", snap.Progress.Errors[0])
	}
}

func TestJob_SetCounts(t *testing.T) {
	job := &Job{ID: "counts-test", UpdatedAt: time.Now()}
	job.SetCounts(120, 9, 6)

	snap := job.Snapshot()
	if snap.Progress.Fragments != 120 || snap.Progress.Candidates != 9 || snap.Progress.Headings != 6 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
}

func TestJob_OutlineInSnapshot(t *testing.T) {
	job := &Job{ID: "outline-test", UpdatedAt: time.Now()}
	if job.Snapshot().Outline != nil {
		t.Fatal("expected no outline before classification")
	}

	job.SetOutline(doctree.DocumentOutline{
		Title:   "Guide",
		Outline: []doctree.OutlineEntry{{Level: doctree.H1, Text: "1. Setup", Page: 1}},
	})
	snap := job.Snapshot()
	if snap.Outline == nil || snap.Outline.Title != "Guide" {
		t.Fatalf("expected outline in snapshot, got %+v", snap.Outline)
	}

	b, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"result":{"title":"Guide","outline":[{"level":"H1","text":"1. Setup","page":1}]}`) {
		t.Errorf("unexpected snapshot json: %s", b)
	}
}

func TestJob_ReleaseFileData(t *testing.T) {
	job := NewJob("", "a.txt", []byte("file content here"))
	job.releaseFileData()
	if job.FileData() != nil {
		t.Error("expected file data released")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
