package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/multierr"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

// Op is one mutation within an ApplyBatch call. Exec runs inside the
// batch's shared transaction and returns the result (for RowsAffected
// accounting) and the distinct URI the op touched, for deduplicated
// post-commit notification.
type Op struct {
	URI  string
	Exec func(ctx context.Context, tx *sql.Tx) (sql.Result, error)
}

// OpUpsertFile returns an Op that upserts a file row and bumps the tree's
// usn, for use from the refresh worker pool's single end-of-walk batch
// (§4.6 step 4).
func OpUpsertFile(treeID int64, treeUUID string, f *File) Op {
	return Op{
		URI: fileURI(treeID, NormalizePath(f.Path)),
		Exec: func(ctx context.Context, tx *sql.Tx) (sql.Result, error) {
			usn, err := bumpTreeUSN(ctx, tx, treeID)
			if err != nil {
				return nil, err
			}

			f.USN = usn
			f.Path = NormalizePath(f.Path)
			table := FileTableName(treeUUID)

			return tx.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO %q (path, file_type, status, mtime, length, usn,
					sha1, modifier, win_attr, unix_attr, local_vclock, remote_vclock, alias, time_stamp)
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
		},
	}
}

// OpTombstoneFile returns an Op that marks a file REMOVE with a freshly
// bumped usn, for the same end-of-walk batch as OpUpsertFile.
func OpTombstoneFile(treeID int64, treeUUID, path string) Op {
	path = NormalizePath(path)
	table := FileTableName(treeUUID)

	return Op{
		URI: fileURI(treeID, path),
		Exec: func(ctx context.Context, tx *sql.Tx) (sql.Result, error) {
			usn, err := bumpTreeUSN(ctx, tx, treeID)
			if err != nil {
				return nil, err
			}

			return tx.ExecContext(ctx,
				fmt.Sprintf(`UPDATE %q SET status = 'REMOVE', usn = ? WHERE path = ?`, table), usn, path)
		},
	}
}

// ApplyBatch executes every op in order inside one transaction, summing
// RowsAffected, and notifies each distinct URI exactly once after commit
// (§4.1 "apply_batch(ops) executing a list ... under one transaction and
// notifying each distinct URI exactly once"). A failed op rolls back the
// whole batch and surfaces kerr.ErrContent wrapping every accumulated error
// — resolving §9's open question ("the spec mandates atomic commit ...
// implementers should treat partial apply as CONTENT error").
func (s *Store) ApplyBatch(ctx context.Context, ops []Op) (int64, error) {
	var (
		affected int64
		errs     error
	)

	uris := make(map[string]struct{}, len(ops))

	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		for i := range ops {
			res, err := ops[i].Exec(ctx, tx)
			if err != nil {
				errs = multierr.Append(errs, err)

				return kerr.Wrap(kerr.Content, "store.ApplyBatch", errs)
			}

			n, err := res.RowsAffected()
			if err != nil {
				errs = multierr.Append(errs, err)

				return kerr.Wrap(kerr.Content, "store.ApplyBatch: rows affected", errs)
			}

			affected += n
			uris[ops[i].URI] = struct{}{}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.notifyAll(uris)

	return affected, nil
}
