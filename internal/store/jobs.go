package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Job statuses as stored in the jobs table.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Job is one deferred document-processing request. The uploaded file sits
// on disk at FilePath until a worker picks the job up.
type Job struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	FilePath  string        `json:"-"`
	Status    string        `json:"status"`
	Attempts  int           `json:"attempts"`
	Error     string        `json:"error,omitempty"`
	CourseID  sql.NullInt64 `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// EnqueueJob records a queued job and returns its id.
func (s *Store) EnqueueJob(ctx context.Context, filename, filePath string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.sb.Insert("jobs").
		Columns("id", "filename", "file_path", "status", "attempts", "error", "created_at", "updated_at").
		Values(id, filename, filePath, JobQueued, 0, "", now, now).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}
	return id, nil
}

// ClaimJob atomically flips the oldest queued job to processing and returns
// it. A nil job with nil error means the queue is empty. Selection and
// update are separate statements, so a concurrent worker can win the race;
// the conditional update detects that and reports an empty claim.
func (s *Store) ClaimJob(ctx context.Context) (*Job, error) {
	row := s.sb.Select("id", "filename", "file_path", "attempts", "created_at").
		From("jobs").
		Where(sq.Eq{"status": JobQueued}).
		OrderBy("created_at ASC").
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)

	var j Job
	err := row.Scan(&j.ID, &j.Filename, &j.FilePath, &j.Attempts, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select queued job: %w", err)
	}

	res, err := s.sb.Update("jobs").
		Set("status", JobProcessing).
		Set("attempts", j.Attempts+1).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": j.ID, "status": JobQueued}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim job %s: %w", j.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim job result: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	j.Status = JobProcessing
	j.Attempts++
	return &j, nil
}

// CompleteJob marks a job done and links the course it produced.
func (s *Store) CompleteJob(ctx context.Context, jobID string, courseID int64) error {
	return s.finishJob(ctx, jobID, JobCompleted, "", sql.NullInt64{Int64: courseID, Valid: true})
}

// FailJob marks a job failed with the error message shown to status polls.
func (s *Store) FailJob(ctx context.Context, jobID string, msg string) error {
	return s.finishJob(ctx, jobID, JobFailed, msg, sql.NullInt64{})
}

func (s *Store) finishJob(ctx context.Context, jobID, status, msg string, courseID sql.NullInt64) error {
	res, err := s.sb.Update("jobs").
		Set("status", status).
		Set("error", msg).
		Set("course_id", courseID).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": jobID}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update job %s: %w", jobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJob loads one job by id.
func (s *Store) GetJob(ctx context.Context, jobID string) (*Job, error) {
	row := s.sb.Select("id", "filename", "file_path", "status", "attempts", "error", "course_id", "created_at", "updated_at").
		From("jobs").
		Where(sq.Eq{"id": jobID}).
		RunWith(s.db).
		QueryRowContext(ctx)

	var j Job
	err := row.Scan(&j.ID, &j.Filename, &j.FilePath, &j.Status, &j.Attempts, &j.Error, &j.CourseID, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &j, nil
}
