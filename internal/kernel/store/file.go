package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

// FileTableName returns the per-tree file table name derived from the
// tree's uuid (§3 "File (schema per tree, table name derived from tree
// uuid)"). Hyphens are not valid in an unquoted SQLite identifier even
// though every reference here is quoted, so they are folded to underscores
// for readability in logs and EXPLAIN output.
func FileTableName(treeUUID string) string {
	return "file_" + strings.ReplaceAll(treeUUID, "-", "_")
}

func fileTableDDL(treeUUID string) string {
	table := FileTableName(treeUUID)

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id             INTEGER PRIMARY KEY,
		path           TEXT NOT NULL,
		file_type      TEXT NOT NULL CHECK (file_type IN ('REG', 'DIR')),
		status         TEXT NOT NULL DEFAULT 'NORMAL' CHECK (status IN ('NORMAL', 'REMOVE')),
		mtime          INTEGER NOT NULL DEFAULT 0,
		length         INTEGER NOT NULL DEFAULT 0,
		usn            INTEGER NOT NULL,
		sha1           BLOB,
		modifier       TEXT NOT NULL DEFAULT '',
		win_attr       INTEGER NOT NULL DEFAULT 0,
		unix_attr      INTEGER NOT NULL DEFAULT 0,
		local_vclock   INTEGER NOT NULL DEFAULT 0,
		remote_vclock  INTEGER NOT NULL DEFAULT 0,
		alias          TEXT NOT NULL DEFAULT '',
		time_stamp     INTEGER NOT NULL DEFAULT 0,
		UNIQUE (path)
	)`, table)
}

// ensureFileTable creates a tree's file table if it does not already exist.
// It runs under the same write latch as any other mutation (it is only
// ever called from within withWriteTx), so it participates in the store's
// transaction-serialization contract rather than being a special-cased DDL
// escape hatch.
func (s *Store) ensureFileTable(ctx context.Context, tx *sql.Tx, treeUUID string) error {
	if _, err := tx.ExecContext(ctx, fileTableDDL(treeUUID)); err != nil {
		return kerr.Wrap(kerr.SQLite, "store.ensureFileTable", err)
	}

	return nil
}

const sqlFileColumns = `id, path, file_type, status, mtime, length, usn, sha1,
	modifier, win_attr, unix_attr, local_vclock, remote_vclock, alias, time_stamp`

func scanFile(row interface{ Scan(...any) error }) (*File, error) {
	f := &File{}

	err := row.Scan(&f.ID, &f.Path, &f.Type, &f.Status, &f.Mtime, &f.Length, &f.USN,
		&f.SHA1, &f.Modifier, &f.WinAttr, &f.UnixAttr, &f.LocalVClock,
		&f.RemoteVClock, &f.Alias, &f.TimeStamp)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func fileURI(treeID int64, path string) string {
	return fmt.Sprintf("tree/%d/file/%s", treeID, path)
}

// GetFileByPath returns the file row at path in the given tree's table
// (NORMAL or tombstoned), or (nil, nil) if no row exists at all.
func (s *Store) GetFileByPath(ctx context.Context, treeUUID, path string) (*File, error) {
	table := FileTableName(treeUUID)
	path = NormalizePath(path)

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %q WHERE path = ?`, sqlFileColumns, table), path)

	f, err := scanFile(row)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil file means "not found"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetFileByPath", err)
	}

	return f, nil
}

// ListFilesUnderPrefix returns every active file whose path is the given
// prefix or a descendant of it, ordered by usn, using the escaped LIKE
// pattern so embedded wildcard characters in real paths cannot widen the
// match (§3 File invariant).
func (s *Store) ListFilesUnderPrefix(ctx context.Context, treeUUID, prefix string) ([]*File, error) {
	table := FileTableName(treeUUID)
	prefix = NormalizePath(prefix)
	escaped := EscapeLikePattern(prefix)
	pattern := escaped + "/%"

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %q WHERE (path = ? OR path LIKE ? ESCAPE '\') AND status = 'NORMAL' ORDER BY usn`, sqlFileColumns, table),
		prefix, pattern)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListFilesUnderPrefix", err)
	}
	defer rows.Close()

	return scanFileRows(rows)
}

// ListFilesSinceUSN returns every file row (any status, including
// tombstones) with usn > since, ordered by usn ascending, up to limit rows
// — the primary building block of the Find RPC's paged reply (§4.7, §4.8).
func (s *Store) ListFilesSinceUSN(ctx context.Context, treeUUID string, since int64, limit int) ([]*File, error) {
	table := FileTableName(treeUUID)

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %q WHERE usn > ? ORDER BY usn ASC LIMIT ?`, sqlFileColumns, table),
		since, limit)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListFilesSinceUSN", err)
	}
	defer rows.Close()

	return scanFileRows(rows)
}

// ListActiveFiles returns every NORMAL-status file in the tree, used by a
// refresh pass's "unvisited rows become tombstones" step (§4.6 step 3).
func (s *Store) ListActiveFiles(ctx context.Context, treeUUID string) ([]*File, error) {
	table := FileTableName(treeUUID)

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %q WHERE status = 'NORMAL'`, sqlFileColumns, table))
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListActiveFiles", err)
	}
	defer rows.Close()

	return scanFileRows(rows)
}

func scanFileRows(rows *sql.Rows) ([]*File, error) {
	var files []*File

	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.scanFileRows", err)
		}

		files = append(files, f)
	}

	return files, rows.Err()
}

// UpsertFile inserts or updates a file row, atomically bumping the owning
// tree's last_usn in the same transaction (§3 "usn ... assigned when a row
// is written"; §9 "no separate allocate-then-write race"). It returns the
// stamped File with USN populated and notifies (tree/<id>/file/<path>,
// tree/<id>).
func (s *Store) UpsertFile(ctx context.Context, treeID int64, treeUUID string, f *File) (*File, error) {
	table := FileTableName(treeUUID)
	f.Path = NormalizePath(f.Path)

	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		usn, err := bumpTreeUSN(ctx, tx, treeID)
		if err != nil {
			return err
		}

		f.USN = usn

		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %q (path, file_type, status, mtime, length, usn, sha1,
				modifier, win_attr, unix_attr, local_vclock, remote_vclock, alias, time_stamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				file_type = excluded.file_type, status = excluded.status,
				mtime = excluded.mtime, length = excluded.length, usn = excluded.usn,
				sha1 = excluded.sha1, modifier = excluded.modifier,
				win_attr = excluded.win_attr, unix_attr = excluded.unix_attr,
				local_vclock = excluded.local_vclock, remote_vclock = excluded.remote_vclock,
				alias = excluded.alias, time_stamp = excluded.time_stamp`, table),
			f.Path, f.Type, f.Status, f.Mtime, f.Length, f.USN, f.SHA1, f.Modifier,
			f.WinAttr, f.UnixAttr, f.LocalVClock, f.RemoteVClock, f.Alias, f.TimeStamp)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.UpsertFile", err)
		}

		s.notify(fileURI(treeID, f.Path))
		s.notify(treeItemURI(treeID))

		return nil
	})

	return f, err
}

// TombstoneFile marks a file REMOVE with a freshly bumped usn (§4.6 step 3).
func (s *Store) TombstoneFile(ctx context.Context, treeID int64, treeUUID, path string) error {
	table := FileTableName(treeUUID)
	path = NormalizePath(path)

	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		usn, err := bumpTreeUSN(ctx, tx, treeID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %q SET status = 'REMOVE', usn = ? WHERE path = ?`, table), usn, path)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.TombstoneFile", err)
		}

		s.notify(fileURI(treeID, path))
		s.notify(treeItemURI(treeID))

		return nil
	})
}
