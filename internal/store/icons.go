// ABOUTME: SQLite implementation of IconStore
// ABOUTME: Icon listing, insertion, deletion, favorite toggling and tag updates

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Ensure SQLiteStore implements IconStore.
var _ IconStore = (*SQLiteStore)(nil)

const iconColumns = `id, name, path, svg_content, tags, collection_id, created_at, file_size, favorite`

// ListIconsByCollection returns the icons directly in a collection, ordered by name.
func (s *SQLiteStore) ListIconsByCollection(ctx context.Context, collectionID string) ([]*Icon, error) {
	return s.listIcons(ctx, `SELECT `+iconColumns+` FROM icons WHERE collection_id = ? ORDER BY name, id`, collectionID)
}

// ListIcons returns every icon ordered by name.
func (s *SQLiteStore) ListIcons(ctx context.Context) ([]*Icon, error) {
	return s.listIcons(ctx, `SELECT `+iconColumns+` FROM icons ORDER BY name, id`)
}

// ListFavoriteIcons returns favorite icons ordered by name.
func (s *SQLiteStore) ListFavoriteIcons(ctx context.Context) ([]*Icon, error) {
	return s.listIcons(ctx, `SELECT `+iconColumns+` FROM icons WHERE favorite = 1 ORDER BY name, id`)
}

func (s *SQLiteStore) listIcons(ctx context.Context, query string, args ...any) ([]*Icon, error) {
	var icons []*Icon
	err := s.withConn(func(q querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("querying icons: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			icon, err := scanIcon(rows)
			if err != nil {
				return fmt.Errorf("scanning icon row: %w", err)
			}
			icons = append(icons, icon)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating icon rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return icons, nil
}

// GetIcon retrieves an icon by ID.
// Returns ErrNotFound if the icon doesn't exist.
func (s *SQLiteStore) GetIcon(ctx context.Context, id string) (*Icon, error) {
	var icon *Icon
	err := s.withConn(func(q querier) error {
		var err error
		icon, err = scanIcon(q.QueryRowContext(ctx, `SELECT `+iconColumns+` FROM icons WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("querying icon: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return icon, nil
}

// CreateIcon inserts a new icon.
// Returns ErrDuplicate if the ID is taken and ErrInvalidReference if the
// owning collection does not exist.
func (s *SQLiteStore) CreateIcon(ctx context.Context, icon *Icon) error {
	tags, err := encodeTags(icon.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	favorite := 0
	if icon.Favorite {
		favorite = 1
	}

	err = s.withConn(func(q querier) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO icons (id, name, path, svg_content, tags, collection_id, created_at, file_size, favorite)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			icon.ID,
			icon.Name,
			nullString(icon.Path),
			icon.SVGContent,
			tags,
			icon.CollectionID,
			formatTime(icon.CreatedAt),
			icon.FileSize,
			favorite,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting icon: %w", mapConstraintError(err))
	}

	s.logger.Debug("created icon", "id", icon.ID, "collection_id", icon.CollectionID, "size", icon.FileSize)
	return nil
}

// DeleteIcon removes an icon. The owning collection's icon_count is not
// touched. Deleting a missing icon is a no-op.
func (s *SQLiteStore) DeleteIcon(ctx context.Context, id string) error {
	return s.withConn(func(q querier) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM icons WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting icon: %w", err)
		}
		return nil
	})
}

// ToggleFavorite flips the favorite flag and returns the stored result.
// Returns ErrNotFound if the icon doesn't exist.
func (s *SQLiteStore) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var favorite int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE icons SET favorite = CASE WHEN favorite = 1 THEN 0 ELSE 1 END WHERE id = ?`, id,
		); err != nil {
			return fmt.Errorf("toggling favorite: %w", err)
		}

		err := tx.QueryRowContext(ctx, `SELECT favorite FROM icons WHERE id = ?`, id).Scan(&favorite)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading favorite: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorite == 1, nil
}

// UpdateTags replaces an icon's tag set. Updating a missing icon is a no-op.
func (s *SQLiteStore) UpdateTags(ctx context.Context, id string, tags []string) error {
	encoded, err := encodeTags(tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	return s.withConn(func(q querier) error {
		if _, err := q.ExecContext(ctx, `UPDATE icons SET tags = ? WHERE id = ?`, encoded, id); err != nil {
			return fmt.Errorf("updating tags: %w", err)
		}
		return nil
	})
}

func scanIcon(row rowScanner) (*Icon, error) {
	var icon Icon
	var path, tags sql.NullString
	var fileSize, favorite sql.NullInt64
	var createdAt string

	if err := row.Scan(
		&icon.ID,
		&icon.Name,
		&path,
		&icon.SVGContent,
		&tags,
		&icon.CollectionID,
		&createdAt,
		&fileSize,
		&favorite,
	); err != nil {
		return nil, err
	}

	icon.Path = path.String
	icon.Tags = decodeTags(tags.String)
	icon.CreatedAt = parseTime(createdAt)
	icon.FileSize = fileSize.Int64
	icon.Favorite = favorite.Int64 == 1
	return &icon, nil
}
