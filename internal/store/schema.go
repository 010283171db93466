package store

import (
	"context"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL,
		professor     TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		meeting_days  TEXT NOT NULL DEFAULT '',
		office_hours  TEXT NOT NULL DEFAULT '',
		plain_text    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id    INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		due_date     TEXT NOT NULL DEFAULT '',
		due_time     TEXT NOT NULL DEFAULT '',
		type         TEXT NOT NULL DEFAULT 'other',
		description  TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_course ON assignments(course_id)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id          TEXT PRIMARY KEY,
		filename    TEXT NOT NULL,
		file_path   TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'queued',
		attempts    INTEGER NOT NULL DEFAULT 0,
		error       TEXT NOT NULL DEFAULT '',
		course_id   INTEGER,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status, created_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(512) NOT NULL,
		professor     VARCHAR(255) NOT NULL DEFAULT '',
		email         VARCHAR(255) NOT NULL DEFAULT '',
		meeting_days  VARCHAR(255) NOT NULL DEFAULT '',
		office_hours  VARCHAR(255) NOT NULL DEFAULT '',
		plain_text    MEDIUMTEXT,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id           BIGINT AUTO_INCREMENT PRIMARY KEY,
		course_id    BIGINT NOT NULL,
		title        VARCHAR(1024) NOT NULL,
		due_date     VARCHAR(32) NOT NULL DEFAULT '',
		due_time     VARCHAR(32) NOT NULL DEFAULT '',
		type         VARCHAR(32) NOT NULL DEFAULT 'other',
		description  TEXT,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_assignments_course (course_id),
		CONSTRAINT fk_assignments_course FOREIGN KEY (course_id)
			REFERENCES courses(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id          VARCHAR(64) PRIMARY KEY,
		filename    VARCHAR(512) NOT NULL,
		file_path   VARCHAR(1024) NOT NULL,
		status      VARCHAR(32) NOT NULL DEFAULT 'queued',
		attempts    INT NOT NULL DEFAULT 0,
		error       TEXT,
		course_id   BIGINT,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_jobs_status (status, created_at)
	)`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := sqliteSchema
	if s.dialect == DialectMySQL {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
