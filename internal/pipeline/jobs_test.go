package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/starman154/syllabus-scanner-server/internal/syllabus"
)

func TestNewJob(t *testing.T) {
	data := []byte("pdf bytes")
	job := NewJob("syllabus.pdf", data)

	if job.ID == "" {
		t.Error("expected non-empty job id")
	}
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("expected queued job, got status=%q phase=%q", job.Status, job.Phase)
	}
	if string(job.FileData()) != string(data) {
		t.Errorf("expected file data preserved, got %q", job.FileData())
	}

	other := NewJob("syllabus.pdf", data)
	if other.ID == job.ID {
		t.Error("expected unique job ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("syllabus.pdf", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusAnalyzing, "analyzing"},
		{StatusStoring, "storing"},
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

func TestJob_AddError(t *testing.T) {
	job := NewJob("bad.pdf", nil)
	job.AddError("page 2 analysis failed")
	job.AddError("page 3 analysis failed")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "page 2 analysis failed" {
		t.Errorf("expected first error %q, got %q", "page 2 analysis failed", snap.Errors[0])
	}
}

func TestJob_SetResultDropsFileData(t *testing.T) {
	job := NewJob("syllabus.pdf", []byte("big upload"))
	sum := syllabus.Summary{Course: syllabus.CourseFields{Name: "CS 240"}}
	job.SetResult(&Result{Summary: &sum, CourseID: 7, AssignmentsTotal: 3, AssignmentsSaved: 3})

	if job.FileData() != nil {
		t.Error("expected file data released after result is set")
	}

	snap := job.Snapshot()
	if snap.Result == nil {
		t.Fatal("expected result in snapshot")
	}
	if snap.Result.CourseID != 7 || snap.Result.Summary.Course.Name != "CS 240" {
		t.Errorf("unexpected result: %+v", snap.Result)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return a non-nil errors slice.
	job := NewJob("a.pdf", nil)
	snap := job.Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	js := NewJobStore(time.Hour)
	job := NewJob("a.pdf", nil)
	js.Put(job)

	got := js.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	js := NewJobStore(time.Hour)
	if js.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	js := NewJobStore(50 * time.Millisecond)

	expired := NewJob("old.pdf", nil)
	js.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob("new.pdf", nil)
	js.Put(fresh)

	js.Cleanup()

	if js.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if js.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupDuringStatusUpdates(t *testing.T) {
	// Workers keep mutating jobs while the eviction ticker runs; the
	// race detector flags any unguarded UpdatedAt read in Cleanup.
	js := NewJobStore(time.Hour)
	jobs := make([]*Job, 8)
	for i := range jobs {
		jobs[i] = NewJob("busy.pdf", nil)
		js.Put(jobs[i])
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				job.SetStatus(StatusAnalyzing, "analyzing")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			js.Cleanup()
		}
	}()
	wg.Wait()

	for _, job := range jobs {
		if js.Get(job.ID) == nil {
			t.Errorf("expected active job %s to survive cleanup", job.ID)
		}
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	js := NewJobStore(time.Hour)
	// Should not panic on an empty store.
	js.Cleanup()
}
