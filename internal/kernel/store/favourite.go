package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func favouriteURI(treeID int64) string {
	return fmt.Sprintf("tree/%d/favourite", treeID)
}

// AddFavorite marks path as a selective-sync favourite within a tree,
// returning kerr.ErrFavouriteExist if already present (§6, §7).
func (s *Store) AddFavorite(ctx context.Context, treeID int64, path string) error {
	path = NormalizePath(path)

	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO favourite (tree_id, path) VALUES (?, ?)`, treeID, path)
		if err != nil {
			if isUniqueViolation(err) {
				return kerr.Wrap(kerr.FavouriteExist, "store.AddFavorite", err)
			}

			return kerr.Wrap(kerr.SQLite, "store.AddFavorite", err)
		}

		s.notify(favouriteURI(treeID))

		return nil
	})
}

// DelFavorite removes a favourite, returning kerr.ErrFavouriteNoent if it
// was not present.
func (s *Store) DelFavorite(ctx context.Context, treeID int64, path string) error {
	path = NormalizePath(path)

	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM favourite WHERE tree_id = ? AND path = ?`, treeID, path)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.DelFavorite", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.DelFavorite: rows affected", err)
		}

		if affected == 0 {
			return kerr.Wrap(kerr.FavouriteNoent, "store.DelFavorite", nil)
		}

		s.notify(favouriteURI(treeID))

		return nil
	})
}

// HasFavourite reports whether path is marked as a favourite in treeID.
func (s *Store) HasFavourite(ctx context.Context, treeID int64, path string) (bool, error) {
	path = NormalizePath(path)

	var exists int

	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM favourite WHERE tree_id = ? AND path = ?`, treeID, path).Scan(&exists)
	if isNoRows(err) {
		return false, nil
	}

	if err != nil {
		return false, kerr.Wrap(kerr.SQLite, "store.HasFavourite", err)
	}

	return true, nil
}

// ListFavourites returns every favourite path for a tree.
func (s *Store) ListFavourites(ctx context.Context, treeID int64) ([]*Favourite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tree_id, path FROM favourite WHERE tree_id = ? ORDER BY path`, treeID)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListFavourites", err)
	}
	defer rows.Close()

	var favs []*Favourite

	for rows.Next() {
		f := &Favourite{}
		if err := rows.Scan(&f.ID, &f.TreeID, &f.Path); err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.ListFavourites: scan", err)
		}

		favs = append(favs, f)
	}

	return favs, rows.Err()
}
