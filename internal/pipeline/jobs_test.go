package pipeline

import (
	"testing"
	"time"

	"github.com/tanisha290/adobe-teamkt-1b/internal/payload"
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

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	in := &payload.CollectionInput{
		Documents: []payload.DocumentRef{{Filename: "a.pdf"}, {Filename: "b.pdf"}},
		Persona:   payload.Persona{Role: "Travel Planner"},
		Job:       payload.Job{Task: "Plan a trip"},
	}
	job := NewJob(in, []Document{{Filename: "a.pdf"}, {Filename: "b.pdf"}})

	if job.ID == "" {
		t.Fatal("expected a generated job ID")
	}
	snap := job.Snapshot()
	if snap.Status != StatusQueued {
		t.Errorf("expected queued, got %q", snap.Status)
	}
	if snap.Persona != "Travel Planner" || snap.Task != "Plan a trip" {
		t.Errorf("unexpected persona/task %q/%q", snap.Persona, snap.Task)
	}
	if snap.Progress.TotalDocuments != 2 {
		t.Errorf("expected 2 total documents, got %d", snap.Progress.TotalDocuments)
	}
	if other := NewJob(in, nil); other.ID == job.ID {
		t.Error("expected unique job IDs")
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
		{StatusExtracting, "extracting"},
		{StatusRanking, "ranking"},
		{StatusRefining, "refining"},
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
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusPartial} {
		if !s.Done() {
			t.Errorf("expected %q to be terminal", s)
		}
	}
	for _, s := range []JobStatus{StatusQueued, StatusExtracting, StatusRanking, StatusRefining} {
		if s.Done() {
			t.Errorf("expected %q to be non-terminal", s)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("a.pdf: parse failed")
	job.AddError("b.pdf: timed out")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "a.pdf: parse failed" {
		t.Errorf("expected first error %q, got %q", "a.pdf: parse failed", snap.Progress.Errors[0])
	}
}

func TestJob_DocumentDone(t *testing.T) {
	job := &Job{ID: "incr-test", UpdatedAt: time.Now()}
	job.DocumentDone(false)
	job.DocumentDone(true)
	job.DocumentDone(false)

	snap := job.Snapshot()
	if snap.Progress.DocumentsProcessed != 3 {
		t.Errorf("expected 3 documents processed, got %d", snap.Progress.DocumentsProcessed)
	}
	if snap.Progress.DocumentsFailed != 1 {
		t.Errorf("expected 1 failed document, got %d", snap.Progress.DocumentsFailed)
	}
}

func TestJob_SetResult(t *testing.T) {
	job := &Job{ID: "result-test"}
	if job.Result() != nil {
		t.Fatal("expected no result before completion")
	}
	out := &payload.CollectionOutput{
		ExtractedSections:  make([]payload.ExtractedSection, 4),
		SubsectionAnalysis: make([]payload.SubsectionAnalysis, 2),
	}
	job.SetResult(out)

	snap := job.Snapshot()
	if snap.Progress.SectionsRanked != 4 || snap.Progress.Subsections != 2 {
		t.Errorf("unexpected progress counts %+v", snap.Progress)
	}
	if job.Result() != out {
		t.Error("expected stored result")
	}
}

func TestJob_TakeDocumentsReleasesPayloads(t *testing.T) {
	job := &Job{ID: "docs", docs: []Document{{Filename: "a.txt", Data: []byte("x")}}}
	if got := job.takeDocuments(); len(got) != 1 {
		t.Fatalf("expected 1 document, got %d", len(got))
	}
	if got := job.takeDocuments(); got != nil {
		t.Errorf("expected documents released, got %d", len(got))
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

func TestJobStore_ListNewestFirst(t *testing.T) {
	store := NewJobStore(time.Hour)
	now := time.Now()
	store.Put(&Job{ID: "old", CreatedAt: now.Add(-time.Minute), UpdatedAt: now})
	store.Put(&Job{ID: "new", CreatedAt: now, UpdatedAt: now})

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "old" {
		t.Errorf("expected newest first, got %s, %s", list[0].ID, list[1].ID)
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

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
