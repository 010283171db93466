package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialects the store can run on. MySQL is the primary; SQLite is the
// fallback when the primary is unreachable at startup.
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// Config selects the backing database. MySQLDSN empty means SQLite only.
type Config struct {
	MySQLDSN    string
	SQLitePath  string
	PingTimeout time.Duration
}

// Store wraps the database handle plus the dialect it was opened with.
// The fallback decision happens once in Open, never per request.
type Store struct {
	db      *sql.DB
	dialect string
	sb      sq.StatementBuilderType
	logger  *slog.Logger
}

// Open connects to MySQL if a DSN is configured, falling back to SQLite
// when the ping fails. The schema is created on whichever database wins.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 5 * time.Second
	}

	if cfg.MySQLDSN != "" {
		db, err := openMySQL(ctx, cfg.MySQLDSN, cfg.PingTimeout)
		if err == nil {
			logger.Info("connected to mysql")
			return newStore(ctx, db, DialectMySQL, logger)
		}
		logger.Warn("mysql unreachable, falling back to sqlite", "error", err)
	}

	path := cfg.SQLitePath
	if path == "" {
		path = "syllabus.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent job processing.
	db.SetMaxOpenConns(1)
	logger.Info("using sqlite store", "path", path)
	return newStore(ctx, db, DialectSQLite, logger)
}

func openMySQL(ctx context.Context, dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func newStore(ctx context.Context, db *sql.DB, dialect string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  logger,
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Dialect reports which backend the store ended up on.
func (s *Store) Dialect() string {
	return s.dialect
}

func (s *Store) Close() error {
	return s.db.Close()
}
