// ABOUTME: Mock Store implementation for testing
// ABOUTME: In-memory arena of collections and icons with a child index, no SQLite

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
// It enforces the same identifier and reference rules as SQLiteStore.
type MockStore struct {
	mu          sync.RWMutex
	collections map[string]*Collection     // keyed by collection ID
	children    map[string]map[string]bool // parent ID -> child IDs
	icons       map[string]*Icon           // keyed by icon ID
	settings    map[string]string
	closed      bool
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		collections: make(map[string]*Collection),
		children:    make(map[string]map[string]bool),
		icons:       make(map[string]*Icon),
		settings:    make(map[string]string),
	}
}

func copyCollection(c *Collection) *Collection {
	out := *c
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	return &out
}

func copyIcon(i *Icon) *Icon {
	out := *i
	out.Tags = append([]string{}, i.Tags...)
	return &out
}

// ListCollections returns all collections ordered by name.
func (m *MockStore) ListCollections(ctx context.Context) ([]*Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Collection, 0, len(m.collections))
	for _, c := range m.collections {
		result = append(result, copyCollection(c))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetCollection retrieves a collection by ID.
func (m *MockStore) GetCollection(ctx context.Context, id string) (*Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCollection(c), nil
}

// CreateCollection stores a new collection.
func (m *MockStore) CreateCollection(ctx context.Context, c *Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[c.ID]; ok {
		return fmt.Errorf("inserting collection %s: %w", c.ID, ErrDuplicate)
	}
	if !c.IsRoot() {
		if _, ok := m.collections[*c.ParentID]; !ok {
			return fmt.Errorf("inserting collection %s: %w", c.ID, ErrInvalidReference)
		}
	}

	stored := copyCollection(c)
	if stored.IsRoot() {
		stored.ParentID = nil
	} else {
		if m.children[*stored.ParentID] == nil {
			m.children[*stored.ParentID] = make(map[string]bool)
		}
		m.children[*stored.ParentID][stored.ID] = true
	}
	m.collections[stored.ID] = stored
	return nil
}

// RenameCollection updates a collection's name.
func (m *MockStore) RenameCollection(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.collections[id]; ok {
		c.Name = name
	}
	return nil
}

// DeleteCollection removes a collection subtree and its icons.
func (m *MockStore) DeleteCollection(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[id]
	if !ok {
		return nil
	}

	// Compute the full set before mutating anything.
	doomed := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for child := range m.children[next] {
			if !doomed[child] {
				doomed[child] = true
				queue = append(queue, child)
			}
		}
	}

	for iconID, icon := range m.icons {
		if doomed[icon.CollectionID] {
			delete(m.icons, iconID)
		}
	}
	for cid := range doomed {
		delete(m.collections, cid)
		delete(m.children, cid)
	}
	if !c.IsRoot() {
		delete(m.children[*c.ParentID], id)
	}
	return nil
}

// UpdateIconCount overwrites the cached count.
func (m *MockStore) UpdateIconCount(ctx context.Context, id string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.collections[id]; ok {
		c.IconCount = count
	}
	return nil
}

func (m *MockStore) sortedIcons(keep func(*Icon) bool) []*Icon {
	result := make([]*Icon, 0)
	for _, icon := range m.icons {
		if keep(icon) {
			result = append(result, copyIcon(icon))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// ListIconsByCollection returns icons in a collection ordered by name.
func (m *MockStore) ListIconsByCollection(ctx context.Context, collectionID string) ([]*Icon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedIcons(func(i *Icon) bool { return i.CollectionID == collectionID }), nil
}

// ListIcons returns all icons ordered by name.
func (m *MockStore) ListIcons(ctx context.Context) ([]*Icon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedIcons(func(*Icon) bool { return true }), nil
}

// ListFavoriteIcons returns favorite icons ordered by name.
func (m *MockStore) ListFavoriteIcons(ctx context.Context) ([]*Icon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedIcons(func(i *Icon) bool { return i.Favorite }), nil
}

// GetIcon retrieves an icon by ID.
func (m *MockStore) GetIcon(ctx context.Context, id string) (*Icon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	icon, ok := m.icons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyIcon(icon), nil
}

// CreateIcon stores a new icon.
func (m *MockStore) CreateIcon(ctx context.Context, icon *Icon) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.icons[icon.ID]; ok {
		return fmt.Errorf("inserting icon %s: %w", icon.ID, ErrDuplicate)
	}
	if _, ok := m.collections[icon.CollectionID]; !ok {
		return fmt.Errorf("inserting icon %s: %w", icon.ID, ErrInvalidReference)
	}

	stored := copyIcon(icon)
	stored.Tags = NormalizeTags(stored.Tags)
	m.icons[stored.ID] = stored
	return nil
}

// DeleteIcon removes an icon.
func (m *MockStore) DeleteIcon(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.icons, id)
	return nil
}

// ToggleFavorite flips an icon's favorite flag.
func (m *MockStore) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	icon, ok := m.icons[id]
	if !ok {
		return false, ErrNotFound
	}
	icon.Favorite = !icon.Favorite
	return icon.Favorite, nil
}

// UpdateTags replaces an icon's tags.
func (m *MockStore) UpdateTags(ctx context.Context, id string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if icon, ok := m.icons[id]; ok {
		icon.Tags = NormalizeTags(tags)
	}
	return nil
}

// GetSettings returns typed settings with defaults.
func (m *MockStore) GetSettings(ctx context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings := DefaultSettings()
	if v := m.settings[SettingTheme]; v != "" {
		settings.Theme = v
	}
	if v, ok := m.settings[SettingIconSize]; ok {
		settings.IconSize = parseIconSize(v)
	}
	if v := m.settings[SettingTintColor]; v != "" {
		settings.TintColor = &v
	}
	return settings, nil
}

// SetSetting stores a setting.
func (m *MockStore) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = value
	return nil
}

// TotalIconCount returns the number of icons.
func (m *MockStore) TotalIconCount(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.icons), nil
}

// FavoriteCount returns the number of favorite icons.
func (m *MockStore) FavoriteCount(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, icon := range m.icons {
		if icon.Favorite {
			n++
		}
	}
	return n, nil
}

// CountIconsInCollection counts icons directly in a collection.
func (m *MockStore) CountIconsInCollection(ctx context.Context, collectionID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, icon := range m.icons {
		if icon.CollectionID == collectionID {
			n++
		}
	}
	return n, nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)
