package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func shareSyncURI(syncID int64) string {
	return fmt.Sprintf("sync/%d/share_sync", syncID)
}

// GetShareSyncPerm returns the permission granted to a peer device over a
// sync, or (nil, nil) if no grant exists.
func (s *Store) GetShareSyncPerm(ctx context.Context, deviceID, syncID int64) (*ShareSync, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT device_id, sync_id, sync_perm FROM share_sync WHERE device_id = ? AND sync_id = ?`,
		deviceID, syncID)

	sh := &ShareSync{}

	err := row.Scan(&sh.DeviceID, &sh.SyncID, &sh.SyncPerm)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil share means "not granted"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetShareSyncPerm", err)
	}

	return sh, nil
}

// ListShareSyncsBySync returns every peer grant for a sync.
func (s *Store) ListShareSyncsBySync(ctx context.Context, syncID int64) ([]*ShareSync, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT device_id, sync_id, sync_perm FROM share_sync WHERE sync_id = ?`, syncID)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListShareSyncsBySync", err)
	}
	defer rows.Close()

	var shares []*ShareSync

	for rows.Next() {
		sh := &ShareSync{}
		if err := rows.Scan(&sh.DeviceID, &sh.SyncID, &sh.SyncPerm); err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.ListShareSyncsBySync: scan", err)
		}

		shares = append(shares, sh)
	}

	return shares, rows.Err()
}

// SetShareSyncPerm upserts the permission grant for a (device, sync) pair.
// A transition to DISCONNECT is handled by the caller (Kernel API / C8
// PushSyncInfo handler), which must also delete the peer's local-tree row
// for that sync per §8 boundary 12; the store layer only records the
// permission value itself.
func (s *Store) SetShareSyncPerm(ctx context.Context, deviceID, syncID int64, perm SyncPerm) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO share_sync (device_id, sync_id, sync_perm) VALUES (?, ?, ?)
			ON CONFLICT(device_id, sync_id) DO UPDATE SET sync_perm = excluded.sync_perm`,
			deviceID, syncID, perm)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.SetShareSyncPerm", err)
		}

		s.notify(shareSyncURI(syncID))

		return nil
	})
}

// RemoveShareSync deletes a peer's grant entirely (CancelShareSync, §6).
func (s *Store) RemoveShareSync(ctx context.Context, deviceID, syncID int64) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM share_sync WHERE device_id = ? AND sync_id = ?`, deviceID, syncID)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.RemoveShareSync", err)
		}

		s.notify(shareSyncURI(syncID))

		return nil
	})
}
