package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

const deviceURI = "device"

func deviceItemURI(id int64) string {
	return fmt.Sprintf("%s/%d", deviceURI, id)
}

const sqlDeviceColumns = `id, uuid, name, route_port, data_port, status, device_type,
	is_mine, backup_dst_root, version, token_sha1`

func scanDevice(row interface{ Scan(...any) error }) (*Device, error) {
	d := &Device{}

	err := row.Scan(&d.ID, &d.UUID, &d.Name, &d.RoutePort, &d.DataPort, &d.Status,
		&d.DeviceType, &d.IsMine, &d.BackupDstRoot, &d.Version, &d.TokenSHA1)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// GetDevice returns the device with the given id, or (nil, nil) if absent.
func (s *Store) GetDevice(ctx context.Context, id int64) (*Device, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqlDeviceColumns+` FROM device WHERE id = ?`, id)

	d, err := scanDevice(row)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil device means "not found"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetDevice", err)
	}

	return d, nil
}

// GetDeviceByUUID returns the device with the given uuid, or (nil, nil).
func (s *Store) GetDeviceByUUID(ctx context.Context, uuid string) (*Device, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqlDeviceColumns+` FROM device WHERE uuid = ?`, uuid)

	d, err := scanDevice(row)
	if isNoRows(err) {
		return nil, nil //nolint:nilnil // nil device means "not found"
	}

	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.GetDeviceByUUID", err)
	}

	return d, nil
}

// ListDevices returns every device row, including the self (id=0) row once
// it has been seeded by Initialize.
func (s *Store) ListDevices(ctx context.Context) ([]*Device, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqlDeviceColumns+` FROM device ORDER BY id`)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListDevices", err)
	}
	defer rows.Close()

	var devices []*Device

	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.ListDevices: scan", err)
		}

		devices = append(devices, d)
	}

	return devices, rows.Err()
}

// UpsertDevice inserts or updates a device row by id and notifies
// device/<id> and the device collection URI.
func (s *Store) UpsertDevice(ctx context.Context, d *Device) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO device (id, uuid, name, route_port, data_port, status,
				device_type, is_mine, backup_dst_root, version, token_sha1)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				uuid = excluded.uuid, name = excluded.name,
				route_port = excluded.route_port, data_port = excluded.data_port,
				status = excluded.status, device_type = excluded.device_type,
				is_mine = excluded.is_mine, backup_dst_root = excluded.backup_dst_root,
				version = excluded.version, token_sha1 = excluded.token_sha1`,
			d.ID, d.UUID, d.Name, d.RoutePort, d.DataPort, d.Status,
			d.DeviceType, d.IsMine, d.BackupDstRoot, d.Version, d.TokenSHA1)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.UpsertDevice", err)
		}

		s.notify(deviceItemURI(d.ID))
		s.notify(deviceURI)

		return nil
	})
}

// SetDeviceStatus updates only the status column (used by the offline
// transition, §3, §8 invariant 3).
func (s *Store) SetDeviceStatus(ctx context.Context, id int64, status DeviceStatus) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE device SET status = ? WHERE id = ?`, status, id)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.SetDeviceStatus", err)
		}

		s.notify(deviceItemURI(id))

		return nil
	})
}

// ListDeviceIPs returns every IP row for a device.
func (s *Store) ListDeviceIPs(ctx context.Context, deviceID int64) ([]*DeviceIP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, device_id, ip, is_ipv6, earliest_no_response_time
		 FROM device_ip WHERE device_id = ?`, deviceID)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.ListDeviceIPs", err)
	}
	defer rows.Close()

	var ips []*DeviceIP

	for rows.Next() {
		ip := &DeviceIP{}
		if err := rows.Scan(&ip.ID, &ip.DeviceID, &ip.IP, &ip.IsIPv6, &ip.EarliestNoResponseTime); err != nil {
			return nil, kerr.Wrap(kerr.SQLite, "store.ListDeviceIPs: scan", err)
		}

		ips = append(ips, ip)
	}

	return ips, rows.Err()
}

// UpsertDeviceIP inserts a (device_id, ip) endpoint if not already present.
func (s *Store) UpsertDeviceIP(ctx context.Context, deviceID int64, ip string, isIPv6 bool) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO device_ip (device_id, ip, is_ipv6, earliest_no_response_time)
			VALUES (?, ?, ?, NULL)
			ON CONFLICT DO NOTHING`, deviceID, ip, isIPv6)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.UpsertDeviceIP", err)
		}

		// Successful contact clears any prior failure mark.
		_, err = tx.ExecContext(ctx,
			`UPDATE device_ip SET earliest_no_response_time = NULL WHERE device_id = ? AND ip = ?`,
			deviceID, ip)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.UpsertDeviceIP: clear", err)
		}

		s.notify(deviceItemURI(deviceID))

		return nil
	})
}

// MarkDeviceIPFailing records a failed contact attempt, setting
// earliest_no_response_time if not already set (§3 "a row with
// earliest_no_response_time ≠ NONE is a failing endpoint").
func (s *Store) MarkDeviceIPFailing(ctx context.Context, deviceID int64, ip string, now int64) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE device_ip SET earliest_no_response_time = ?
			WHERE device_id = ? AND ip = ? AND earliest_no_response_time IS NULL`,
			now, deviceID, ip)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.MarkDeviceIPFailing", err)
		}

		s.notify(deviceItemURI(deviceID))

		return nil
	})
}

// DeleteDeviceIP removes one endpoint, e.g. once it exceeds the offline
// timeout (§3, §4.8).
func (s *Store) DeleteDeviceIP(ctx context.Context, deviceID int64, ip string) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM device_ip WHERE device_id = ? AND ip = ?`, deviceID, ip)
		if err != nil {
			return kerr.Wrap(kerr.SQLite, "store.DeleteDeviceIP", err)
		}

		s.notify(deviceItemURI(deviceID))

		return nil
	})
}
