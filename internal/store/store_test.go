package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/starman154/syllabus-scanner-server/internal/syllabus"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(context.Background(), Config{
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSummary() *syllabus.Summary {
	return &syllabus.Summary{
		Course: syllabus.CourseFields{
			Name:        "CS 240",
			Professor:   "Dr. Lin",
			Email:       "lin@example.edu",
			MeetingDays: "MWF 10-11am",
			OfficeHours: "Tu 2-4pm",
		},
		PlainText: "rendered summary",
		Assignments: []syllabus.Assignment{
			{Title: "Midterm", DueDate: "2024-10-15", Type: syllabus.TypeExam, Description: "Midterm October 15, 2024"},
			{Title: "Homework 1", DueDate: "2024-09-20", Type: syllabus.TypeAssignment, Description: "Homework 1 due September 20, 2024"},
		},
	}
}

func TestFallsBackToSQLite(t *testing.T) {
	s := newTestStore(t)
	if s.Dialect() != DialectSQLite {
		t.Errorf("expected sqlite dialect, got %q", s.Dialect())
	}
}

func TestSaveAndGetCourse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sum := sampleSummary()
	id, err := s.SaveCourse(ctx, sum)
	if err != nil {
		t.Fatalf("save course: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero course id")
	}

	ids, err := s.SaveAssignments(ctx, id, sum.Assignments)
	if err != nil {
		t.Fatalf("save assignments: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 saved assignments, got %d", len(ids))
	}

	got, err := s.GetCourse(ctx, id)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if got.Name != "CS 240" || got.Professor != "Dr. Lin" {
		t.Errorf("unexpected course fields: %+v", got)
	}
	if got.PlainText != "rendered summary" {
		t.Errorf("expected plain text persisted, got %q", got.PlainText)
	}
	if len(got.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got.Assignments))
	}
	if got.Assignments[0].Title != "Midterm" || got.Assignments[0].Type != syllabus.TypeExam {
		t.Errorf("unexpected first assignment: %+v", got.Assignments[0])
	}
}

func TestSaveCourseDefaultsName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveCourse(ctx, &syllabus.Summary{})
	if err != nil {
		t.Fatalf("save course: %v", err)
	}
	got, err := s.GetCourse(ctx, id)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if got.Name != syllabus.DefaultCourseName {
		t.Errorf("expected default course name, got %q", got.Name)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetCourse(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListCourses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"First Course", "Second Course"} {
		sum := sampleSummary()
		sum.Course.Name = name
		if _, err := s.SaveCourse(ctx, sum); err != nil {
			t.Fatalf("save course %q: %v", name, err)
		}
	}

	courses, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	// Newest first.
	if courses[0].Name != "Second Course" {
		t.Errorf("expected newest course first, got %q", courses[0].Name)
	}
	if courses[0].PlainText != "" {
		t.Error("list should not carry plain text")
	}
}

func TestDeleteCourse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sum := sampleSummary()
	id, err := s.SaveCourse(ctx, sum)
	if err != nil {
		t.Fatalf("save course: %v", err)
	}
	if _, err := s.SaveAssignments(ctx, id, sum.Assignments); err != nil {
		t.Fatalf("save assignments: %v", err)
	}

	if err := s.DeleteCourse(ctx, id); err != nil {
		t.Fatalf("delete course: %v", err)
	}
	if _, err := s.GetCourse(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteCourse(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Empty queue claims nothing.
	if j, err := s.ClaimJob(ctx); err != nil || j != nil {
		t.Fatalf("expected empty claim, got job=%v err=%v", j, err)
	}

	id, err := s.EnqueueJob(ctx, "syllabus.pdf", "/tmp/uploads/syllabus.pdf")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	j, err := s.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if j.Status != JobQueued || j.Attempts != 0 {
		t.Errorf("unexpected queued job: %+v", j)
	}

	claimed, err := s.ClaimJob(ctx)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != id {
		t.Fatalf("expected to claim %s, got %+v", id, claimed)
	}
	if claimed.Status != JobProcessing || claimed.Attempts != 1 {
		t.Errorf("unexpected claimed job: %+v", claimed)
	}

	// The claimed job is no longer visible to other claims.
	if j, err := s.ClaimJob(ctx); err != nil || j != nil {
		t.Fatalf("expected empty second claim, got job=%v err=%v", j, err)
	}

	if err := s.CompleteJob(ctx, id, 42); err != nil {
		t.Fatalf("complete: %v", err)
	}
	j, err = s.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("get completed job: %v", err)
	}
	if j.Status != JobCompleted {
		t.Errorf("expected completed, got %q", j.Status)
	}
	if !j.CourseID.Valid || j.CourseID.Int64 != 42 {
		t.Errorf("expected course id 42, got %+v", j.CourseID)
	}
}

func TestFailJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.EnqueueJob(ctx, "scan.png", "/tmp/uploads/scan.png")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := s.ClaimJob(ctx); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := s.FailJob(ctx, id, "model call timed out"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	j, err := s.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if j.Status != JobFailed || j.Error != "model call timed out" {
		t.Errorf("unexpected failed job: %+v", j)
	}

	if err := s.FailJob(ctx, "no-such-job", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown job, got %v", err)
	}
}
