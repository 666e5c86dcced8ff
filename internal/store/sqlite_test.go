// ABOUTME: Tests for SQLite store initialization and schema migrations
// ABOUTME: Covers directory creation, idempotent reopen, legacy column migration and drivers

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), DatabaseFileName))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func countRows(t *testing.T, s *SQLiteStore, table string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		t.Fatalf("pragma_table_info(%s): %v", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scanning column name: %v", err)
		}
		names = append(names, name)
	}
	return names
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "iconbox.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if store.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "iconbox.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestNewSQLiteStore_DirectoryIsAFile(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewSQLiteStore(filepath.Join(blocker, "iconbox.db"))
	if err == nil {
		t.Fatal("expected error when the data directory cannot be created")
	}
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore(:memory:) failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateCollection(ctx, &Collection{ID: "c1", Name: "Root", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	got, err := store.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(got))
	}
}

func TestNewSQLiteStore_ForeignKeysEnabled(t *testing.T) {
	store := newTestStore(t)

	var enabled int
	if err := store.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("reading foreign_keys pragma: %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d, want 1", enabled)
	}

	var mode string
	if err := store.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("reading journal_mode pragma: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "iconbox.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.CreateCollection(ctx, &Collection{ID: "c1", Name: "Root", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := first.SetSetting(ctx, SettingTheme, "dark"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	first.Close()

	for i := 0; i < 2; i++ {
		s, err := NewSQLiteStore(dbPath)
		if err != nil {
			t.Fatalf("reopen %d: %v", i, err)
		}
		if n := countRows(t, s, "collections"); n != 1 {
			t.Errorf("reopen %d: collections = %d, want 1", i, n)
		}
		if n := countRows(t, s, "settings"); n != 1 {
			t.Errorf("reopen %d: settings = %d, want 1", i, n)
		}
		for table, want := range map[string]int{"collections": 6, "icons": 9, "settings": 2} {
			if got := len(columnNames(t, s.db, table)); got != want {
				t.Errorf("reopen %d: %s has %d columns, want %d", i, table, got, want)
			}
		}
		s.Close()
	}
}

func TestMigratesLegacySchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "iconbox.db")

	// Schema as written by the first release: no parent_id, no file_size.
	legacy, err := sql.Open(DriverModernc, dbPath)
	if err != nil {
		t.Fatalf("opening legacy db: %v", err)
	}
	_, err = legacy.Exec(`
		CREATE TABLE collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			icon_count INTEGER DEFAULT 0,
			color TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE icons (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT,
			svg_content TEXT NOT NULL,
			tags TEXT DEFAULT '',
			collection_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			favorite INTEGER DEFAULT 0,
			FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE
		);
		INSERT INTO collections (id, name, icon_count, color, created_at)
			VALUES ('old', 'Old', 1, '#e94560', '2024-01-02T03:04:05.123456+00:00');
		INSERT INTO icons (id, name, path, svg_content, tags, collection_id, created_at, favorite)
			VALUES ('i1', 'home', '/tmp/home.svg', '<svg/>', 'ui, nav', 'old', '2024-01-02T03:04:05+00:00', 1);
	`)
	if err != nil {
		t.Fatalf("creating legacy schema: %v", err)
	}
	legacy.Close()

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore on legacy db: %v", err)
	}
	defer store.Close()

	cols := columnNames(t, store.db, "collections")
	if !contains(cols, "parent_id") {
		t.Errorf("collections columns %v missing parent_id", cols)
	}
	cols = columnNames(t, store.db, "icons")
	if !contains(cols, "file_size") {
		t.Errorf("icons columns %v missing file_size", cols)
	}

	ctx := context.Background()
	icons, err := store.ListIcons(ctx)
	if err != nil {
		t.Fatalf("ListIcons: %v", err)
	}
	if len(icons) != 1 {
		t.Fatalf("expected legacy icon to survive, got %d icons", len(icons))
	}
	if icons[0].FileSize != 0 {
		t.Errorf("FileSize = %d, want default 0", icons[0].FileSize)
	}
	if len(icons[0].Tags) != 2 || icons[0].Tags[0] != "ui" || icons[0].Tags[1] != "nav" {
		t.Errorf("legacy tags decoded as %q", icons[0].Tags)
	}

	c, err := store.GetCollection(ctx, "old")
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if c.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", *c.ParentID)
	}
	if c.CreatedAt.IsZero() {
		t.Error("fractional-second timestamp was not parsed")
	}

	// The migrated column is usable for new children and subtree deletes.
	parent := "old"
	if err := store.CreateCollection(ctx, &Collection{ID: "child", Name: "Child", ParentID: &parent, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection child: %v", err)
	}
	dangling := "no-such-parent"
	err = store.CreateCollection(ctx, &Collection{ID: "stray", Name: "Stray", ParentID: &dangling, CreatedAt: time.Now()})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("dangling parent_id on migrated db: expected ErrInvalidReference, got %v", err)
	}
	if err := store.DeleteCollection(ctx, "old"); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}
	if n := countRows(t, store, "collections"); n != 0 {
		t.Errorf("collections after delete = %d, want 0", n)
	}
	if n := countRows(t, store, "icons"); n != 0 {
		t.Errorf("icons after delete = %d, want 0", n)
	}

	// A second open finds nothing left to migrate.
	store.Close()
	again, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopening migrated db: %v", err)
	}
	again.Close()
}

func TestColumnExists_MissingTable(t *testing.T) {
	store := newTestStore(t)

	exists, err := store.columnExists(context.Background(), "no_such_table", "id")
	if err != nil {
		t.Fatalf("columnExists: %v", err)
	}
	if exists {
		t.Error("columnExists reported a column on a missing table")
	}
}

func TestConcurrentOperationsAreSerialized(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateCollection(ctx, &Collection{ID: "root", Name: "Root", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				icon := &Icon{
					ID:           fmt.Sprintf("icon-%d-%d", w, i),
					Name:         "icon",
					SVGContent:   "<svg/>",
					CollectionID: "root",
					CreatedAt:    time.Now(),
				}
				if err := store.CreateIcon(ctx, icon); err != nil {
					errs <- err
					continue
				}
				if _, err := store.ToggleFavorite(ctx, icon.ID); err != nil {
					errs <- err
				}
				if _, err := store.ListIcons(ctx); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent operation failed: %v", err)
	}

	total, err := store.TotalIconCount(ctx)
	if err != nil {
		t.Fatalf("TotalIconCount: %v", err)
	}
	if total != workers*perWorker {
		t.Errorf("TotalIconCount = %d, want %d", total, workers*perWorker)
	}
	favs, err := store.FavoriteCount(ctx)
	if err != nil {
		t.Fatalf("FavoriteCount: %v", err)
	}
	if favs != workers*perWorker {
		t.Errorf("FavoriteCount = %d, want %d", favs, workers*perWorker)
	}
}

func TestOperationsAfterClose(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "iconbox.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := store.ListCollections(context.Background()); err == nil {
		t.Error("expected error from closed store")
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestNewSQLiteStore_CGODriver(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "iconbox.db"), WithDriver(DriverCGO))
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") {
			t.Skip("go-sqlite3 built without cgo")
		}
		t.Fatalf("NewSQLiteStore with %s driver: %v", DriverCGO, err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateCollection(ctx, &Collection{ID: "c1", Name: "Root", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	missing := "nope"
	err = store.CreateCollection(ctx, &Collection{ID: "c2", Name: "Orphan", ParentID: &missing, CreatedAt: time.Now()})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference from %s driver, got %v", DriverCGO, err)
	}
}
