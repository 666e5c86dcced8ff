// ABOUTME: SQLite implementation of SettingsStore and StatsStore
// ABOUTME: Typed settings reads with per-key defaults, upserts, and icon counts

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	_ SettingsStore = (*SQLiteStore)(nil)
	_ StatsStore    = (*SQLiteStore)(nil)
)

// GetSettings reads each known key on its own; a missing key or a malformed
// icon_size yields that key's default without failing the whole read.
func (s *SQLiteStore) GetSettings(ctx context.Context) (Settings, error) {
	settings := DefaultSettings()
	err := s.withConn(func(q querier) error {
		if v, ok, err := getSetting(ctx, q, SettingTheme); err != nil {
			return err
		} else if ok && v != "" {
			settings.Theme = v
		}

		if v, ok, err := getSetting(ctx, q, SettingIconSize); err != nil {
			return err
		} else if ok {
			settings.IconSize = parseIconSize(v)
		}

		if v, ok, err := getSetting(ctx, q, SettingTintColor); err != nil {
			return err
		} else if ok && v != "" {
			settings.TintColor = &v
		}
		return nil
	})
	if err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

func getSetting(ctx context.Context, q querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %q: %w", key, err)
	}
	return value, true, nil
}

func parseIconSize(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return DefaultIconSize
	}
	return n
}

// SetSetting stores value under key, replacing any previous value.
// Keys are not validated.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	err := s.withConn(func(q querier) error {
		_, err := q.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("saving setting %q: %w", key, err)
	}
	s.logger.Debug("saved setting", "key", key)
	return nil
}

// TotalIconCount returns the number of stored icons.
func (s *SQLiteStore) TotalIconCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM icons`)
}

// FavoriteCount returns the number of favorite icons.
func (s *SQLiteStore) FavoriteCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM icons WHERE favorite = 1`)
}

// CountIconsInCollection counts the icons directly in a collection.
func (s *SQLiteStore) CountIconsInCollection(ctx context.Context, collectionID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM icons WHERE collection_id = ?`, collectionID)
}

func (s *SQLiteStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := s.withConn(func(q querier) error {
		return q.QueryRowContext(ctx, query, args...).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("counting icons: %w", err)
	}
	return n, nil
}
