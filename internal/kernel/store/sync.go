package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

const syncURI = "sync"

func syncItemURI(id int64) string {
	return fmt.Sprintf("%s/%d", syncURI, id)
}

const sqlSyncColumns = `id, uuid, name, last_sync, sync_type, status, device_id,
	permission, restore_share_perm`

func scanSync(row interface{ Scan(...any) error }) (*Sync, error) {
	sy := &Sync{}

	err := row.Scan(&sy.ID, &sy.UUID, &sy.Name, &sy.LastSync, &sy.Type, &sy.Status,
		&sy.DeviceID, &sy.Permission, &sy.RestoreSharePerm)
	if err != nil {
		return nil, err
	}

	return sy, nil
}

// GetSync returns the sync with the given id, or (nil, nil) if absent.
func (s *Store) GetSync(ctx context.Context, id int64) (*Sync, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqlSyncColumns+` FROM sync WHERE id = ?`, id)

	sy, err := scanSync(row)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil sync means "not found"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetSync", err)
	}

	return sy, nil
}

// GetSyncByUUID returns the sync with the given uuid, or (nil, nil).
func (s *Store) GetSyncByUUID(ctx context.Context, uuid string) (*Sync, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqlSyncColumns+` FROM sync WHERE uuid = ?`, uuid)

	sy, err := scanSync(row)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil sync means "not found"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetSyncByUUID", err)
	}

	return sy, nil
}

// ListSyncs returns every non-removed sync row.
func (s *Store) ListSyncs(ctx context.Context) ([]*Sync, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqlSyncColumns+` FROM sync WHERE status != 'REMOVED' ORDER BY id`)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListSyncs", err)
	}
	defer rows.Close()

	var syncs []*Sync

	for rows.Next() {
		sy, err := scanSync(rows)
		if err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.ListSyncs: scan", err)
		}

		syncs = append(syncs, sy)
	}

	return syncs, rows.Err()
}

// InsertSync creates a new sync row, failing with kerr.ErrSyncCreatorExist
// semantics left to the caller (the Kernel API layer owns uuid generation
// and the creator-already-set check per §6 CreateSync).
func (s *Store) InsertSync(ctx context.Context, sy *Sync) (int64, error) {
	var id int64

	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO sync (uuid, name, last_sync, sync_type, status, device_id, permission, restore_share_perm)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sy.UUID, sy.Name, sy.LastSync, sy.Type, sy.Status, sy.DeviceID, sy.Permission, sy.RestoreSharePerm)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.InsertSync", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.InsertSync: last insert id", err)
		}

		s.notify(syncItemURI(id))
		s.notify(syncURI)

		return nil
	})

	return id, err
}

// UpdateSync persists every mutable field of sy (status, permission,
// last_sync, device_id, restore_share_perm) and notifies observers.
func (s *Store) UpdateSync(ctx context.Context, sy *Sync) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE sync SET name = ?, last_sync = ?, sync_type = ?, status = ?,
				device_id = ?, permission = ?, restore_share_perm = ?
			WHERE id = ?`,
			sy.Name, sy.LastSync, sy.Type, sy.Status, sy.DeviceID, sy.Permission, sy.RestoreSharePerm, sy.ID)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.UpdateSync", err)
		}

		s.notify(syncItemURI(sy.ID))

		return nil
	})
}

// RemoveSync soft-deletes a sync (status=REMOVED) so that tombstone
// propagation can still reach peers before garbage collection (§3
// "Lifecycle summary").
func (s *Store) RemoveSync(ctx context.Context, id int64) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE sync SET status = 'REMOVED' WHERE id = ?`, id)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.RemoveSync", err)
		}

		s.notify(syncItemURI(id))
		s.notify(syncURI)

		return nil
	})
}
