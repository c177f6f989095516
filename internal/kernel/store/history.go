package store

import (
	"context"
	"database/sql"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

// HistoryEntry is one row of the Plain side-store's history/misc table
// (§3 "History/Misc plain key/value tables in a separate unencrypted
// database, holding the passphrase fragment used to open the encrypted
// main store").
type HistoryEntry struct {
	Key   string
	Value string
}

// GetHistory returns a history/misc value by key, or ("", false, nil) if
// unset. Callers must have opened this Store with Kind Plain.
func (s *Store) GetHistory(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM history WHERE key = ?`, key).Scan(&value)
	if isNoRows(err) {
		return "", false, nil
	}

	if err != nil {
		return "", false, kerr.Wrap(kerr.SQLite, "store.GetHistory", err)
	}

	return value, true, nil
}

// SetHistory upserts a history/misc value.
func (s *Store) SetHistory(ctx context.Context, key, value string) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO history (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.SetHistory", err)
		}

		s.notify("history/" + key)

		return nil
	})
}

// QueryHistoryInfo lists every history/misc row (§6 QueryHistoryInfo).
func (s *Store) QueryHistoryInfo(ctx context.Context) ([]*HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM history ORDER BY key`)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.QueryHistoryInfo", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry

	for rows.Next() {
		e := &HistoryEntry{}
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.QueryHistoryInfo: scan", err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
