package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

const treeURI = "tree"

func treeItemURI(id int64) string {
	return fmt.Sprintf("%s/%d", treeURI, id)
}

const sqlTreeColumns = `id, uuid, root, device_id, sync_id, status, last_find,
	last_usn, backup_type, is_enabled, sync_mode, root_status`

func scanTree(row interface{ Scan(...any) error }) (*Tree, error) {
	t := &Tree{}

	err := row.Scan(&t.ID, &t.UUID, &t.Root, &t.DeviceID, &t.SyncID, &t.Status,
		&t.LastFind, &t.LastUSN, &t.BackupType, &t.IsEnabled, &t.SyncMode, &t.RootStatus)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// GetTree returns the tree with the given id, or (nil, nil) if absent.
func (s *Store) GetTree(ctx context.Context, id int64) (*Tree, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqlTreeColumns+` FROM tree WHERE id = ?`, id)

	t, err := scanTree(row)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil tree means "not found"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetTree", err)
	}

	return t, nil
}

// GetTreeByUUID returns the tree with the given uuid, or (nil, nil).
func (s *Store) GetTreeByUUID(ctx context.Context, uuid string) (*Tree, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqlTreeColumns+` FROM tree WHERE uuid = ?`, uuid)

	t, err := scanTree(row)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil tree means "not found"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetTreeByUUID", err)
	}

	return t, nil
}

// ListTreesBySync returns every tree belonging to a sync.
func (s *Store) ListTreesBySync(ctx context.Context, syncID int64) ([]*Tree, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqlTreeColumns+` FROM tree WHERE sync_id = ? ORDER BY id`, syncID)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListTreesBySync", err)
	}
	defer rows.Close()

	return scanTreeRows(rows)
}

// ListTrees returns every tree row.
func (s *Store) ListTrees(ctx context.Context) ([]*Tree, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqlTreeColumns+` FROM tree ORDER BY id`)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListTrees", err)
	}
	defer rows.Close()

	return scanTreeRows(rows)
}

func scanTreeRows(rows *sql.Rows) ([]*Tree, error) {
	var trees []*Tree

	for rows.Next() {
		t, err := scanTree(rows)
		if err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.scanTreeRows", err)
		}

		trees = append(trees, t)
	}

	return trees, rows.Err()
}

// InsertTree creates a new tree row and its per-tree file table.
func (s *Store) InsertTree(ctx context.Context, t *Tree) (int64, error) {
	var id int64

	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tree (uuid, root, device_id, sync_id, status, last_find,
				last_usn, backup_type, is_enabled, sync_mode, root_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.UUID, t.Root, t.DeviceID, t.SyncID, t.Status, t.LastFind,
			t.LastUSN, t.BackupType, t.IsEnabled, t.SyncMode, t.RootStatus)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.InsertTree", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.InsertTree: last insert id", err)
		}

		if err := s.ensureFileTable(ctx, tx, t.UUID); err != nil {
			return err
		}

		s.notify(treeItemURI(id))
		s.notify(treeURI)
		s.notify(syncItemURI(t.SyncID))

		return nil
	})

	return id, err
}

// UpdateTree persists every mutable field of t except last_usn (which is
// only ever advanced by BumpTreeUSN inside the same transaction as the
// File row it stamps, §3 File invariant "usn strictly increasing").
func (s *Store) UpdateTree(ctx context.Context, t *Tree) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE tree SET root = ?, status = ?, last_find = ?, backup_type = ?,
				is_enabled = ?, sync_mode = ?, root_status = ?
			WHERE id = ?`,
			t.Root, t.Status, t.LastFind, t.BackupType, t.IsEnabled, t.SyncMode, t.RootStatus, t.ID)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.UpdateTree", err)
		}

		s.notify(treeItemURI(t.ID))

		return nil
	})
}

// SetTreeRootStatus flips root_status, e.g. when a tree's filesystem root
// disappears or reappears (§4.6, §8 boundary 10).
func (s *Store) SetTreeRootStatus(ctx context.Context, id int64, status RootStatus) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE tree SET root_status = ? WHERE id = ?`, status, id)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.SetTreeRootStatus", err)
		}

		s.notify(treeItemURI(id))

		return nil
	})
}

// RemoveTree soft-deletes a tree (status=REMOVE).
func (s *Store) RemoveTree(ctx context.Context, id int64) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE tree SET status = 'REMOVE' WHERE id = ?`, id)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.RemoveTree", err)
		}

		s.notify(treeItemURI(id))
		s.notify(treeURI)

		return nil
	})
}

// bumpTreeUSN atomically increments and returns tree.last_usn. Must be
// called with tx already open on the same transaction as the File write it
// stamps, so allocation and write are never split across transactions
// (§9 DESIGN NOTES, C1 description: "no separate allocate-then-write race").
func bumpTreeUSN(ctx context.Context, tx *sql.Tx, treeID int64) (int64, error) {
	var usn int64

	row := tx.QueryRowContext(ctx,
		`UPDATE tree SET last_usn = last_usn + 1 WHERE id = ? RETURNING last_usn`, treeID)
	if err := row.Scan(&usn); err != nil {
		return 0, kerr.Wrap(kerr.SQLite, "store.bumpTreeUSN", err)
	}

	return usn, nil
}
