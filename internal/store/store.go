// ABOUTME: Store interfaces and data types for iconbox persistence
// ABOUTME: Defines Collection, Icon, Settings and the per-concern store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert reuses an existing identifier
var ErrDuplicate = errors.New("duplicate identifier")

// ErrInvalidReference is returned when an insert points at a collection that does not exist
var ErrInvalidReference = errors.New("referenced collection does not exist")

// Collection is a named node in the collection tree.
type Collection struct {
	ID        string
	Name      string
	ParentID  *string // nil for root-level collections
	IconCount int     // direct icons only, maintained by callers via UpdateIconCount
	Color     string
	CreatedAt time.Time
}

// IsRoot reports whether the collection has no parent.
func (c *Collection) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// Icon is a stored SVG asset owned by exactly one collection.
type Icon struct {
	ID           string
	Name         string
	Path         string // original filesystem path, informational only
	SVGContent   string
	Tags         []string
	CollectionID string
	CreatedAt    time.Time
	FileSize     int64
	Favorite     bool
}

// Setting keys understood by GetSettings.
const (
	SettingTheme     = "theme"
	SettingIconSize  = "icon_size"
	SettingTintColor = "tint_color"
)

// Defaults returned by GetSettings when a key is absent or malformed.
const (
	DefaultTheme    = "light"
	DefaultIconSize = 64
)

// Settings is the typed view over the settings key-value table.
type Settings struct {
	Theme     string
	IconSize  int
	TintColor *string
}

// DefaultSettings returns the settings a fresh database reports.
func DefaultSettings() Settings {
	return Settings{Theme: DefaultTheme, IconSize: DefaultIconSize}
}

// CollectionStore manages the collection tree.
type CollectionStore interface {
	// ListCollections returns every collection ordered by name.
	ListCollections(ctx context.Context) ([]*Collection, error)
	GetCollection(ctx context.Context, id string) (*Collection, error)
	CreateCollection(ctx context.Context, c *Collection) error
	// RenameCollection is a no-op when id does not exist.
	RenameCollection(ctx context.Context, id, name string) error
	// DeleteCollection removes the collection, its descendants and all their icons.
	// It is a no-op when id does not exist.
	DeleteCollection(ctx context.Context, id string) error
	UpdateIconCount(ctx context.Context, id string, count int) error
}

// IconStore manages icons within collections.
type IconStore interface {
	ListIconsByCollection(ctx context.Context, collectionID string) ([]*Icon, error)
	ListIcons(ctx context.Context) ([]*Icon, error)
	ListFavoriteIcons(ctx context.Context) ([]*Icon, error)
	GetIcon(ctx context.Context, id string) (*Icon, error)
	CreateIcon(ctx context.Context, icon *Icon) error
	// DeleteIcon removes the icon row only; the owning collection's count is untouched.
	DeleteIcon(ctx context.Context, id string) error
	// ToggleFavorite flips the flag and returns the new value, or ErrNotFound.
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	// UpdateTags replaces the full tag set. It is a no-op when id does not exist.
	UpdateTags(ctx context.Context, id string, tags []string) error
}

// SettingsStore is the key-value settings table.
type SettingsStore interface {
	GetSettings(ctx context.Context) (Settings, error)
	SetSetting(ctx context.Context, key, value string) error
}

// StatsStore provides aggregate counts over icons.
type StatsStore interface {
	TotalIconCount(ctx context.Context) (int, error)
	FavoriteCount(ctx context.Context) (int, error)
	CountIconsInCollection(ctx context.Context, collectionID string) (int, error)
}

// Store is the full persistence surface used by the application layer.
type Store interface {
	CollectionStore
	IconStore
	SettingsStore
	StatsStore

	// Close releases any resources held by the store
	Close() error
}
