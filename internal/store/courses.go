package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/starman154/syllabus-scanner-server/internal/syllabus"
)

// ErrNotFound is returned when a requested course does not exist.
var ErrNotFound = errors.New("not found")

// Course is a persisted syllabus summary row plus its assignments.
type Course struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Professor   string                `json:"professor"`
	Email       string                `json:"email"`
	MeetingDays string                `json:"meetingDays"`
	OfficeHours string                `json:"officeHours"`
	PlainText   string                `json:"plain_text,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	Assignments []syllabus.Assignment `json:"assignments,omitempty"`
}

// SaveCourse inserts the merged course fields and returns the new course id.
func (s *Store) SaveCourse(ctx context.Context, sum *syllabus.Summary) (int64, error) {
	name := sum.Course.Name
	if name == "" {
		name = syllabus.DefaultCourseName
	}

	res, err := s.sb.Insert("courses").
		Columns("name", "professor", "email", "meeting_days", "office_hours", "plain_text").
		Values(name, sum.Course.Professor, sum.Course.Email, sum.Course.MeetingDays, sum.Course.OfficeHours, sum.PlainText).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert course: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("course insert id: %w", err)
	}
	return id, nil
}

// GetCourse loads one course with its assignments.
func (s *Store) GetCourse(ctx context.Context, id int64) (*Course, error) {
	row := s.sb.Select("id", "name", "professor", "email", "meeting_days", "office_hours", "plain_text", "created_at").
		From("courses").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRowContext(ctx)

	var c Course
	err := row.Scan(&c.ID, &c.Name, &c.Professor, &c.Email, &c.MeetingDays, &c.OfficeHours, &c.PlainText, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan course: %w", err)
	}

	assignments, err := s.loadAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Assignments = assignments
	return &c, nil
}

// ListCourses returns all courses newest first, without plain text or
// assignments. The list endpoint only needs the header fields.
func (s *Store) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := s.sb.Select("id", "name", "professor", "email", "meeting_days", "office_hours", "created_at").
		From("courses").
		OrderBy("created_at DESC", "id DESC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Professor, &c.Email, &c.MeetingDays, &c.OfficeHours, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("course rows: %w", err)
	}
	return courses, nil
}

// DeleteCourse removes a course and, via the foreign key cascade, its
// assignments. SQLite needs the cascade done by hand when foreign keys
// are off, so assignments are deleted explicitly first.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	if _, err := s.sb.Delete("assignments").Where(sq.Eq{"course_id": id}).RunWith(s.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}

	res, err := s.sb.Delete("courses").Where(sq.Eq{"id": id}).RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
