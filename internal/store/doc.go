// Package store provides persistent storage for iconbox using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with one interface
// per concern:
//
//   - CollectionStore: the collection tree, including subtree deletion
//   - IconStore: icons, tags and favorites
//   - SettingsStore: key-value settings with typed defaults
//   - StatsStore: aggregate icon counts
//
// Store combines them. SQLiteStore implements all interfaces in a single
// struct; MockStore is an in-memory implementation for tests.
//
// # Data Models
//
//   - Collection: named tree node; ParentID nil means root level
//   - Icon: SVG payload plus tags and favorite flag, owned by one collection
//   - Settings: theme, icon_size and tint_color read from the settings table
//
// # SQLite Configuration
//
// The store holds a single connection, serialized by a mutex, with:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Two drivers are supported: modernc.org/sqlite ("sqlite", the default, no
// cgo) and github.com/mattn/go-sqlite3 ("sqlite3", cgo). The database file is
// iconbox.db in the per-user data directory; tests use t.TempDir() or
// ":memory:".
//
// # Migrations
//
// Tables are created with CREATE TABLE IF NOT EXISTS. Columns added after the
// first release (collections.parent_id, icons.file_size) are added to older
// databases on open when pragma_table_info does not list them. A failed
// ADD COLUMN is logged as a warning and does not prevent the store from
// opening. Opening the same file repeatedly is safe.
//
// # Deletion
//
// DeleteCollection computes the full descendant set with a recursive query,
// then deletes icons of the collection, icons of the descendants, the
// descendants and finally the collection, all in one transaction. Deleting a
// missing collection, renaming it or updating tags of a missing icon are
// no-ops. ToggleFavorite on a missing icon returns ErrNotFound.
//
// # Tags
//
// Tags are stored as a JSON array in icons.tags. Values written by older
// builds as a comma-joined string are still read; that legacy form cannot
// carry tags that contain a comma.
//
// # Error Handling
//
//   - ErrNotFound: requested entity does not exist
//   - ErrDuplicate: insert reused an existing ID
//   - ErrInvalidReference: insert referenced a missing collection
package store
