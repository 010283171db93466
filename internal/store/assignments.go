package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/starman154/syllabus-scanner-server/internal/syllabus"
)

// SaveAssignments inserts each assignment independently and returns the ids
// of the rows that made it in. One failed insert never aborts the rest;
// callers compare len(ids) against len(list) to surface partial persistence.
func (s *Store) SaveAssignments(ctx context.Context, courseID int64, list []syllabus.Assignment) ([]int64, error) {
	ids := make([]int64, 0, len(list))
	var firstErr error

	for _, a := range list {
		res, err := s.sb.Insert("assignments").
			Columns("course_id", "title", "due_date", "due_time", "type", "description").
			Values(courseID, a.Title, a.DueDate, a.DueTime, string(a.Type), a.Description).
			RunWith(s.db).
			ExecContext(ctx)
		if err != nil {
			s.logger.Error("assignment insert failed", "course_id", courseID, "title", a.Title, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("insert assignment %q: %w", a.Title, err)
			}
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			s.logger.Error("assignment insert id failed", "course_id", courseID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("assignment insert id: %w", err)
			}
			continue
		}
		ids = append(ids, id)
	}
	return ids, firstErr
}

func (s *Store) loadAssignments(ctx context.Context, courseID int64) ([]syllabus.Assignment, error) {
	rows, err := s.sb.Select("title", "due_date", "due_time", "type", "description").
		From("assignments").
		Where(sq.Eq{"course_id": courseID}).
		OrderBy("id ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	defer rows.Close()

	var out []syllabus.Assignment
	for rows.Next() {
		var a syllabus.Assignment
		var typ string
		if err := rows.Scan(&a.Title, &a.DueDate, &a.DueTime, &typ, &a.Description); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Type = syllabus.AssignmentType(typ)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assignment rows: %w", err)
	}
	return out, nil
}
