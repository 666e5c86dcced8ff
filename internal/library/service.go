// ABOUTME: Library service is the application-facing layer over the icon store
// ABOUTME: Assigns ids, colors and timestamps, imports folders and keeps icon counts current

package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/iconbox/internal/scan"
	"github.com/2389/iconbox/internal/store"
)

// DefaultImportName names a collection imported from a folder without a usable base name.
const DefaultImportName = "Imported"

// Palette holds the colors assigned to new collections.
var Palette = []string{
	"#e94560", "#00d9ff", "#00ff88", "#ff6b35", "#a855f7",
	"#f59e0b", "#10b981", "#3b82f6", "#ec4899", "#8b5cf6",
}

// FolderScanner lists the SVG files of a folder.
type FolderScanner interface {
	Scan(ctx context.Context, dir string) ([]scan.File, error)
}

// Stats summarises the library.
type Stats struct {
	Collections int
	Icons       int
	Favorites   int
}

// Service wraps a store.Store with the operations the CLI exposes.
type Service struct {
	store   store.Store
	scanner FolderScanner
	logger  *slog.Logger

	newID     func() string
	now       func() time.Time
	pickColor func() string
}

// Option configures a Service.
type Option func(*Service)

// WithIDSource replaces the UUID generator.
func WithIDSource(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// WithColorPicker replaces the random palette choice.
func WithColorPicker(fn func() string) Option {
	return func(s *Service) { s.pickColor = fn }
}

// New creates a library Service.
func New(st store.Store, scanner FolderScanner, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     st,
		scanner:   scanner,
		logger:    logger.With("component", "library"),
		newID:     uuid.NewString,
		now:       time.Now,
		pickColor: randomColor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomColor() string {
	return Palette[rand.Intn(len(Palette))]
}

// describe wraps err with the failed operation for display.
func describe(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Collections returns every collection ordered by name.
func (s *Service) Collections(ctx context.Context) ([]*store.Collection, error) {
	cs, err := s.store.ListCollections(ctx)
	return cs, describe("listing collections", err)
}

// Collection returns a single collection.
func (s *Service) Collection(ctx context.Context, id string) (*store.Collection, error) {
	c, err := s.store.GetCollection(ctx, id)
	return c, describe("getting collection", err)
}

// CreateCollection creates an empty collection under parentID (nil for a root).
func (s *Service) CreateCollection(ctx context.Context, name string, parentID *string) (*store.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("creating collection: name is required")
	}

	c := s.newCollection(name, parentID)
	if err := s.store.CreateCollection(ctx, c); err != nil {
		return nil, describe("creating collection", err)
	}

	s.logger.Info("created collection", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) newCollection(name string, parentID *string) *store.Collection {
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	return &store.Collection{
		ID:        s.newID(),
		Name:      name,
		ParentID:  parentID,
		IconCount: 0,
		Color:     s.pickColor(),
		CreatedAt: s.now().UTC(),
	}
}

// RenameCollection changes a collection's name.
func (s *Service) RenameCollection(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("renaming collection: name is required")
	}
	return describe("renaming collection", s.store.RenameCollection(ctx, id, name))
}

// DeleteCollection removes a collection with its whole subtree and their icons.
func (s *Service) DeleteCollection(ctx context.Context, id string) error {
	return describe("deleting collection", s.store.DeleteCollection(ctx, id))
}

// ImportFolder scans dir for SVG files and stores them in a new collection
// named after the folder. Icons that fail to insert are skipped; the
// returned collection carries the number actually stored.
func (s *Service) ImportFolder(ctx context.Context, dir string, parentID *string) (*store.Collection, error) {
	files, err := s.scanner.Scan(ctx, dir)
	if err != nil {
		return nil, describe("importing folder", err)
	}

	c := s.newCollection(folderName(dir), parentID)
	if err := s.store.CreateCollection(ctx, c); err != nil {
		return nil, describe("importing folder", err)
	}

	count := 0
	for _, f := range files {
		icon := &store.Icon{
			ID:           s.newID(),
			Name:         f.Name,
			Path:         f.Path,
			SVGContent:   f.Content,
			Tags:         []string{},
			CollectionID: c.ID,
			CreatedAt:    s.now().UTC(),
			FileSize:     f.Size,
		}
		if err := s.store.CreateIcon(ctx, icon); err != nil {
			s.logger.Warn("skipping icon", "path", f.Path, "error", err)
			continue
		}
		count++
	}

	if err := s.store.UpdateIconCount(ctx, c.ID, count); err != nil {
		// The collection and its icons are already stored; only the cached count is stale.
		s.logger.Error("icon count not updated after import",
			"collection", c.ID, "stored_count", 0, "actual_count", count, "error", err)
		return nil, describe("importing folder", err)
	}
	c.IconCount = count

	s.logger.Info("imported folder", "dir", dir, "collection", c.ID, "icons", count, "skipped", len(files)-count)
	return c, nil
}

func folderName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return DefaultImportName
	}
	return base
}

// Icons returns the icons of one collection ordered by name.
func (s *Service) Icons(ctx context.Context, collectionID string) ([]*store.Icon, error) {
	icons, err := s.store.ListIconsByCollection(ctx, collectionID)
	return icons, describe("listing icons", err)
}

// Icon returns a single icon including its SVG markup.
func (s *Service) Icon(ctx context.Context, id string) (*store.Icon, error) {
	icon, err := s.store.GetIcon(ctx, id)
	return icon, describe("getting icon", err)
}

// AllIcons returns every icon ordered by name.
func (s *Service) AllIcons(ctx context.Context) ([]*store.Icon, error) {
	icons, err := s.store.ListIcons(ctx)
	return icons, describe("listing icons", err)
}

// SearchIcons returns the icons whose name or any tag contains query,
// ignoring case. An empty collectionID searches every collection and a
// blank query matches every icon.
func (s *Service) SearchIcons(ctx context.Context, query, collectionID string) ([]*store.Icon, error) {
	var (
		icons []*store.Icon
		err   error
	)
	if collectionID == "" {
		icons, err = s.store.ListIcons(ctx)
	} else {
		icons, err = s.store.ListIconsByCollection(ctx, collectionID)
	}
	if err != nil {
		return nil, describe("searching icons", err)
	}
	return FilterIcons(icons, query), nil
}

// FilterIcons keeps the icons matching query, preserving order.
func FilterIcons(icons []*store.Icon, query string) []*store.Icon {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return icons
	}
	matched := make([]*store.Icon, 0, len(icons))
	for _, icon := range icons {
		if matchesQuery(icon, query) {
			matched = append(matched, icon)
		}
	}
	return matched
}

func matchesQuery(icon *store.Icon, query string) bool {
	if strings.Contains(strings.ToLower(icon.Name), query) {
		return true
	}
	for _, tag := range icon.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Favorites returns the favorite icons ordered by name.
func (s *Service) Favorites(ctx context.Context) ([]*store.Icon, error) {
	icons, err := s.store.ListFavoriteIcons(ctx)
	return icons, describe("listing favorites", err)
}

// DeleteIcon removes an icon and recounts its collection.
// Deleting an unknown icon is a no-op.
func (s *Service) DeleteIcon(ctx context.Context, id string) error {
	icon, err := s.store.GetIcon(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return describe("deleting icon", err)
	}

	if err := s.store.DeleteIcon(ctx, id); err != nil {
		return describe("deleting icon", err)
	}

	count, err := s.store.CountIconsInCollection(ctx, icon.CollectionID)
	if err != nil {
		return describe("deleting icon", err)
	}
	return describe("deleting icon", s.store.UpdateIconCount(ctx, icon.CollectionID, count))
}

// ToggleFavorite flips an icon's favorite flag and returns the new value.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	fav, err := s.store.ToggleFavorite(ctx, id)
	return fav, describe("toggling favorite", err)
}

// SetTags replaces an icon's tags.
func (s *Service) SetTags(ctx context.Context, id string, tags []string) error {
	return describe("updating tags", s.store.UpdateTags(ctx, id, tags))
}

// Settings returns the typed settings.
func (s *Service) Settings(ctx context.Context) (store.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	return settings, describe("reading settings", err)
}

// SetSetting stores a raw setting value.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("saving setting: key is required")
	}
	return describe("saving setting", s.store.SetSetting(ctx, key, value))
}

// Stats counts collections, icons and favorites.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	collections, err := s.store.ListCollections(ctx)
	if err != nil {
		return st, describe("reading stats", err)
	}
	st.Collections = len(collections)

	if st.Icons, err = s.store.TotalIconCount(ctx); err != nil {
		return st, describe("reading stats", err)
	}
	if st.Favorites, err = s.store.FavoriteCount(ctx); err != nil {
		return st, describe("reading stats", err)
	}
	return st, nil
}
