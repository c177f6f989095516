package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func syncListURI(treeID int64) string {
	return fmt.Sprintf("tree/%d/sync_list", treeID)
}

// ListSyncList returns every selective-sync entry for a tree.
func (s *Store) ListSyncList(ctx context.Context, treeID int64) ([]*SyncListEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tree_id, path FROM sync_list WHERE tree_id = ? ORDER BY path`, treeID)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListSyncList", err)
	}
	defer rows.Close()

	var entries []*SyncListEntry

	for rows.Next() {
		e := &SyncListEntry{}
		if err := rows.Scan(&e.ID, &e.TreeID, &e.Path); err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.ListSyncList: scan", err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// AddSyncListEntry inserts a selective-sync filter entry, returning
// kerr.ErrSyncListExist if it already exists (§6 AddFavorite-style entity
// guard, §7 SYNC_LIST_EXIST).
func (s *Store) AddSyncListEntry(ctx context.Context, treeID int64, path string) error {
	path = NormalizePath(path)

	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO sync_list (tree_id, path) VALUES (?, ?)`, treeID, path)
		if err != nil {
			if isUniqueViolation(err) {
				return kerr.Wrap(kerr.SyncListExist, "store.AddSyncListEntry", err)
			}

			return kerr.Wrap(kerr.SQLite, "store.AddSyncListEntry", err)
		}

		s.notify(syncListURI(treeID))

		return nil
	})
}

// RemoveSyncListEntry deletes a selective-sync filter entry, returning
// kerr.ErrSyncListNoent if it does not exist.
func (s *Store) RemoveSyncListEntry(ctx context.Context, treeID int64, path string) error {
	path = NormalizePath(path)

	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM sync_list WHERE tree_id = ? AND path = ?`, treeID, path)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.RemoveSyncListEntry", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.RemoveSyncListEntry: rows affected", err)
		}

		if affected == 0 {
			return kerr.Wrap(kerr.SyncListNoent, "store.RemoveSyncListEntry", nil)
		}

		s.notify(syncListURI(treeID))

		return nil
	})
}
