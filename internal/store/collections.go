// ABOUTME: SQLite implementation of CollectionStore
// ABOUTME: Collection CRUD and transactional subtree deletion

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Ensure SQLiteStore implements CollectionStore.
var _ CollectionStore = (*SQLiteStore)(nil)

const collectionColumns = `id, name, parent_id, icon_count, color, created_at`

// ListCollections returns all collections ordered by name.
func (s *SQLiteStore) ListCollections(ctx context.Context) ([]*Collection, error) {
	var collections []*Collection
	err := s.withConn(func(q querier) error {
		rows, err := q.QueryContext(ctx, `SELECT `+collectionColumns+` FROM collections ORDER BY name, id`)
		if err != nil {
			return fmt.Errorf("querying collections: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCollection(rows)
			if err != nil {
				return fmt.Errorf("scanning collection row: %w", err)
			}
			collections = append(collections, c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating collection rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// GetCollection retrieves a collection by ID.
// Returns ErrNotFound if the collection doesn't exist.
func (s *SQLiteStore) GetCollection(ctx context.Context, id string) (*Collection, error) {
	var c *Collection
	err := s.withConn(func(q querier) error {
		row := q.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id)
		var err error
		c, err = scanCollection(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("querying collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCollection inserts a new collection.
// Returns ErrDuplicate if the ID is taken and ErrInvalidReference if the
// parent does not exist.
func (s *SQLiteStore) CreateCollection(ctx context.Context, c *Collection) error {
	var parentID any
	if !c.IsRoot() {
		if *c.ParentID == c.ID {
			return fmt.Errorf("collection %s cannot be its own parent: %w", c.ID, ErrInvalidReference)
		}
		parentID = *c.ParentID
	}

	err := s.withConn(func(q querier) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO collections (id, name, parent_id, icon_count, color, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, c.Name, parentID, c.IconCount, nullString(c.Color), formatTime(c.CreatedAt))
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting collection: %w", mapConstraintError(err))
	}

	s.logger.Debug("created collection", "id", c.ID, "name", c.Name)
	return nil
}

// RenameCollection changes a collection's display name.
// Renaming a missing collection is a no-op.
func (s *SQLiteStore) RenameCollection(ctx context.Context, id, name string) error {
	return s.withConn(func(q querier) error {
		if _, err := q.ExecContext(ctx, `UPDATE collections SET name = ? WHERE id = ?`, name, id); err != nil {
			return fmt.Errorf("renaming collection: %w", err)
		}
		return nil
	})
}

// UpdateIconCount overwrites the cached icon count.
func (s *SQLiteStore) UpdateIconCount(ctx context.Context, id string, count int) error {
	return s.withConn(func(q querier) error {
		if _, err := q.ExecContext(ctx, `UPDATE collections SET icon_count = ? WHERE id = ?`, count, id); err != nil {
			return fmt.Errorf("updating icon count: %w", err)
		}
		return nil
	})
}

// descendantsQuery walks parent_id links below the given collection. UNION
// (not UNION ALL) discards rows already seen, so a cycle terminates.
const descendantsQuery = `
	WITH RECURSIVE subtree(id) AS (
		SELECT id FROM collections WHERE parent_id = ?
		UNION
		SELECT c.id FROM collections c JOIN subtree s ON c.parent_id = s.id
	)
	SELECT id FROM subtree
`

// deleteChunk bounds the number of bound parameters per DELETE.
const deleteChunk = 500

// DeleteCollection removes a collection together with every descendant
// collection and every icon owned by any of them, in one transaction.
// The descendant set is computed before anything is deleted.
// Deleting a missing collection is a no-op.
func (s *SQLiteStore) DeleteCollection(ctx context.Context, id string) error {
	var iconsRemoved, collectionsRemoved int64

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM collections WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("checking collection: %w", err)
		}

		descendants, err := collectDescendants(ctx, tx, id)
		if err != nil {
			return err
		}

		n, err := execDelete(ctx, tx, `DELETE FROM icons WHERE collection_id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting icons: %w", err)
		}
		iconsRemoved += n

		n, err = deleteIn(ctx, tx, `DELETE FROM icons WHERE collection_id IN `, descendants)
		if err != nil {
			return fmt.Errorf("deleting descendant icons: %w", err)
		}
		iconsRemoved += n

		if _, err := deleteIn(ctx, tx, `DELETE FROM collections WHERE id IN `, descendants); err != nil {
			return fmt.Errorf("deleting descendant collections: %w", err)
		}

		if _, err := execDelete(ctx, tx, `DELETE FROM collections WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting collection: %w", err)
		}
		// RowsAffected does not include foreign-key cascades, so count the set instead.
		collectionsRemoved = int64(len(descendants) + 1)
		return nil
	})
	if err != nil {
		return err
	}

	if collectionsRemoved > 0 {
		s.logger.Debug("deleted collection", "id", id, "collections", collectionsRemoved, "icons", iconsRemoved)
	}
	return nil
}

// collectDescendants returns the ids strictly below root, excluding root
// itself even if a degenerate cycle leads back to it.
func collectDescendants(ctx context.Context, tx *sql.Tx, root string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, descendantsQuery, root)
	if err != nil {
		return nil, fmt.Errorf("querying descendants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning descendant: %w", err)
		}
		if id != root {
			ids = append(ids, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating descendants: %w", err)
	}
	return ids, nil
}

func execDelete(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// deleteIn runs prefix + "(?, ?, ...)" over ids in chunks.
func deleteIn(ctx context.Context, tx *sql.Tx, prefix string, ids []string) (int64, error) {
	var total int64
	for start := 0; start < len(ids); start += deleteChunk {
		end := min(start+deleteChunk, len(ids))
		chunk := ids[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

		n, err := execDelete(ctx, tx, prefix+"("+placeholders+")", args...)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollection(row rowScanner) (*Collection, error) {
	var c Collection
	var parentID, color sql.NullString
	var iconCount sql.NullInt64
	var createdAt string

	if err := row.Scan(&c.ID, &c.Name, &parentID, &iconCount, &color, &createdAt); err != nil {
		return nil, err
	}

	if parentID.Valid && parentID.String != "" {
		c.ParentID = &parentID.String
	}
	c.IconCount = int(iconCount.Int64)
	c.Color = color.String
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
