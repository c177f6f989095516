package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func configURI(key string) string {
	return fmt.Sprintf("config/%s", key)
}

// GetConfigValue returns a Config table value, or ("", false, nil) if the
// key is unset (§3 Config key/value table; §4.2 identity setters write
// through here under identity.mu).
func (s *Store) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if isNoRows(err) {
		return "", false, nil
	}

	if err != nil {
		return "", false, kerr.Wrap(kerr.SQLite, "store.GetConfigValue", err)
	}

	return value, true, nil
}

// SetConfigValue upserts a Config table value.
func (s *Store) SetConfigValue(ctx context.Context, key, value string) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO config (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.SetConfigValue", err)
		}

		s.notify(configURI(key))

		return nil
	})
}
