// ABOUTME: SQLite implementation of the Store interfaces using database/sql
// ABOUTME: Opens the database, creates the schema, applies additive migrations, serializes access

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names registered with database/sql.
const (
	DriverModernc = "sqlite"  // pure Go, default
	DriverCGO     = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// DatabaseFileName is the file name used inside the per-user data directory.
const DatabaseFileName = "iconbox.db"

// SQLiteStore implements Store on a single SQLite connection.
// All access goes through mu so that no two operations interleave statements.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Option configures NewSQLiteStore.
type Option func(*options)

type options struct {
	driver string
	logger *slog.Logger
}

// WithDriver selects the database/sql driver (DriverModernc or DriverCGO).
func WithDriver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.driver = name
		}
	}
}

// WithLogger overrides the default component logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteStore opens (or creates) the database at path.
// Parent directories are created if needed, the schema is created if it
// doesn't exist, and missing columns from older databases are added.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	o := options{
		driver: DriverModernc,
		logger: slog.Default().With("component", "store"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(o.driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: pragmas stick, and in-memory databases stay a single database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		path:   path,
		logger: o.logger,
	}

	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.runMigrations(ctx)
	s.createIndexes(ctx)

	s.logger.Debug("SQLite store initialized", "path", path, "driver", o.driver)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
// Indexes are created separately, after migrations, since older databases
// may be missing the indexed columns.
func (s *SQLiteStore) createSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			parent_id TEXT,
			icon_count INTEGER DEFAULT 0,
			color TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (parent_id) REFERENCES collections(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS icons (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT,
			svg_content TEXT NOT NULL,
			tags TEXT DEFAULT '',
			collection_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			file_size INTEGER DEFAULT 0,
			favorite INTEGER DEFAULT 0,
			FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// columnMigration adds a column to a table that predates it.
type columnMigration struct {
	table  string
	column string
	apply  string
}

var columnMigrations = []columnMigration{
	// SQLite allows a REFERENCES clause on ADD COLUMN when the default is NULL.
	{
		table:  "collections",
		column: "parent_id",
		apply:  `ALTER TABLE collections ADD COLUMN parent_id TEXT REFERENCES collections(id) ON DELETE CASCADE`,
	},
	{
		table:  "icons",
		column: "file_size",
		apply:  `ALTER TABLE icons ADD COLUMN file_size INTEGER DEFAULT 0`,
	},
}

// runMigrations applies additive column migrations for existing databases.
// They are idempotent. A failed ADD COLUMN is logged and does not abort startup.
func (s *SQLiteStore) runMigrations(ctx context.Context) {
	for _, m := range columnMigrations {
		exists, err := s.columnExists(ctx, m.table, m.column)
		if err != nil {
			s.logger.Warn("checking column", "table", m.table, "column", m.column, "error", err)
		}
		if exists {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.apply); err != nil {
			s.logger.Warn("migration failed", "table", m.table, "column", m.column, "error", err)
			continue
		}
		s.logger.Info("applied migration", "table", m.table, "column", m.column)
	}
}

// columnExists reports whether table has column. An empty pragma result
// (including a table that does not exist) means the column is absent.
func (s *SQLiteStore) columnExists(ctx context.Context, table, column string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) createIndexes(ctx context.Context) {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_icons_collection ON icons(collection_id)`,
		`CREATE INDEX IF NOT EXISTS idx_icons_favorite ON icons(favorite)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_parent ON collections(parent_id)`,
	}
	for _, q := range indexes {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			s.logger.Warn("creating index", "query", q, "error", err)
		}
	}
}

// Path returns the database path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("closing SQLite store")
	return s.db.Close()
}

// withConn runs fn while holding the connection lock.
func (s *SQLiteStore) withConn(fn func(q querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.db)
}

// withTx runs fn inside one transaction while holding the connection lock.
// The transaction is rolled back if fn returns an error.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// mapConstraintError converts SQLite constraint failures into ErrDuplicate or
// ErrInvalidReference. Both drivers report the same message text.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}

// nullString returns nil for empty strings, otherwise the string
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// formatTime keeps sub-second precision so a stored timestamp reads back
// equal to the value that was written.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts RFC3339 with or without fractional seconds. Rows written
// by older builds with an unparseable timestamp get the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
