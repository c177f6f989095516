package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func dhtPeerURI(infoHash []byte) string {
	return fmt.Sprintf("dht_peer/%s", hex.EncodeToString(infoHash))
}

// UpsertDHTPeer records (or refreshes last_seen for) a discovered peer.
func (s *Store) UpsertDHTPeer(ctx context.Context, p *DHTPeer) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dht_peer (info_hash, peer_host, peer_port, peer_is_ipv6, is_lan, last_seen)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(info_hash, peer_host, peer_port) DO UPDATE SET
				peer_is_ipv6 = excluded.peer_is_ipv6, is_lan = excluded.is_lan,
				last_seen = excluded.last_seen`,
			p.InfoHash, p.PeerHost, p.PeerPort, p.PeerIsIPv6, p.IsLAN, p.LastSeen)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.UpsertDHTPeer", err)
		}

		s.notify(dhtPeerURI(p.InfoHash))

		return nil
	})
}

// ListDHTPeers returns every cached peer for an info-hash.
func (s *Store) ListDHTPeers(ctx context.Context, infoHash []byte) ([]*DHTPeer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT info_hash, peer_host, peer_port, peer_is_ipv6, is_lan, last_seen
		FROM dht_peer WHERE info_hash = ?`, infoHash)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListDHTPeers", err)
	}
	defer rows.Close()

	return scanDHTPeerRows(rows)
}

func scanDHTPeerRows(rows *sql.Rows) ([]*DHTPeer, error) {
	var peers []*DHTPeer

	for rows.Next() {
		p := &DHTPeer{}
		if err := rows.Scan(&p.InfoHash, &p.PeerHost, &p.PeerPort, &p.PeerIsIPv6, &p.IsLAN, &p.LastSeen); err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.scanDHTPeerRows", err)
		}

		peers = append(peers, p)
	}

	return peers, rows.Err()
}

// ExpireDHTPeers deletes every peer row whose last_seen is older than
// cutoff (§4.3 "Peer expiry (60s): drop DHTPeer rows whose last-seen is
// older than 360s"). Returns the number of rows removed.
func (s *Store) ExpireDHTPeers(ctx context.Context, cutoff int64) (int64, error) {
	var affected int64

	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM dht_peer WHERE last_seen < ?`, cutoff)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.ExpireDHTPeers", err)
		}

		affected, err = res.RowsAffected()
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.ExpireDHTPeers: rows affected", err)
		}

		s.notify("dht_peer")

		return nil
	})

	return affected, err
}
