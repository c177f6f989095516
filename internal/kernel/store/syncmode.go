package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func syncModeURI(localTreeID, remoteTreeID int64) string {
	return fmt.Sprintf("sync_mode/%d/%d", localTreeID, remoteTreeID)
}

// GetSyncMode returns the configured auto-sync mode for a tree pair,
// defaulting to AUTO with SyncTimeInS=0 if no row exists (§3 "Default
// AUTO").
func (s *Store) GetSyncMode(ctx context.Context, localTreeID, remoteTreeID int64) (*SyncModeRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT local_tree_id, remote_tree_id, sync_mode, sync_time_in_s
		 FROM sync_mode WHERE local_tree_id = ? AND remote_tree_id = ?`,
		localTreeID, remoteTreeID)

	m := &SyncModeRow{}

	err := row.Scan(&m.LocalTreeID, &m.RemoteTreeID, &m.Mode, &m.SyncTimeInS)
	if isNoRows(err) {
		return &SyncModeRow{LocalTreeID: localTreeID, RemoteTreeID: remoteTreeID, Mode: SyncModeAuto}, nil
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetSyncMode", err)
	}

	return m, nil
}

// SetSyncMode upserts the auto-sync mode for a tree pair.
func (s *Store) SetSyncMode(ctx context.Context, m *SyncModeRow) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sync_mode (local_tree_id, remote_tree_id, sync_mode, sync_time_in_s)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(local_tree_id, remote_tree_id) DO UPDATE SET
				sync_mode = excluded.sync_mode, sync_time_in_s = excluded.sync_time_in_s`,
			m.LocalTreeID, m.RemoteTreeID, m.Mode, m.SyncTimeInS)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.SetSyncMode", err)
		}

		s.notify(syncModeURI(m.LocalTreeID, m.RemoteTreeID))

		return nil
	})
}

// ListDueTimerSyncs returns every (local,remote) pair configured as TIMER
// mode, for the auto-sync ticker to filter by elapsed interval.
func (s *Store) ListDueTimerSyncs(ctx context.Context) ([]*SyncModeRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT local_tree_id, remote_tree_id, sync_mode, sync_time_in_s
		 FROM sync_mode WHERE sync_mode = 'TIMER'`)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListDueTimerSyncs", err)
	}
	defer rows.Close()

	var modes []*SyncModeRow

	for rows.Next() {
		m := &SyncModeRow{}
		if err := rows.Scan(&m.LocalTreeID, &m.RemoteTreeID, &m.Mode, &m.SyncTimeInS); err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.ListDueTimerSyncs: scan", err)
		}

		modes = append(modes, m)
	}

	return modes, rows.Err()
}
