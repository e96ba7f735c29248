package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// AddHost inserts or refreshes a known host keyed by address.
func (s *Store) AddHost(host Host) error {
	if host.Address == "" {
		return errors.New("address is required")
	}
	if host.LastSeenTimestamp == 0 {
		host.LastSeenTimestamp = nowUnixMilli()
	}

	_, err := s.db.Exec(
		`INSERT INTO hosts (address, hostname, mac, paired, https_port, last_seen_timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(address) DO UPDATE SET
		   hostname            = excluded.hostname,
		   mac                 = excluded.mac,
		   paired              = excluded.paired,
		   https_port          = excluded.https_port,
		   last_seen_timestamp = excluded.last_seen_timestamp`,
		host.Address,
		host.Hostname,
		host.MAC,
		boolInt(host.Paired),
		nullInt64(int64(host.HTTPSPort)),
		host.LastSeenTimestamp,
	)
	if err != nil {
		return fmt.Errorf("upsert host %q: %w", host.Address, err)
	}

	return nil
}

// GetHost fetches a host by address.
func (s *Store) GetHost(address string) (*Host, error) {
	row := s.db.QueryRow(
		`SELECT address, hostname, mac, paired, https_port, last_seen_timestamp
		 FROM hosts
		 WHERE address = ?`,
		address,
	)

	host, err := scanHost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get host %q: %w", address, err)
	}

	return host, nil
}

// ListHosts returns all known hosts sorted by hostname.
func (s *Store) ListHosts() ([]Host, error) {
	rows, err := s.db.Query(
		`SELECT address, hostname, mac, paired, https_port, last_seen_timestamp
		 FROM hosts
		 ORDER BY hostname COLLATE NOCASE, address`,
	)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []Host
	for rows.Next() {
		host, err := scanHost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan host: %w", err)
		}
		hosts = append(hosts, *host)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hosts: %w", err)
	}

	return hosts, nil
}

// RemoveHost deletes a host and, via cascade, its favorites.
func (s *Store) RemoveHost(address string) error {
	result, err := s.db.Exec(`DELETE FROM hosts WHERE address = ?`, address)
	if err != nil {
		return fmt.Errorf("remove host %q: %w", address, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove host %q: %w", address, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetPaired records the pairing outcome for a host.
func (s *Store) SetPaired(address string, paired bool) error {
	result, err := s.db.Exec(
		`UPDATE hosts SET paired = ?, last_seen_timestamp = ? WHERE address = ?`,
		boolInt(paired), nowUnixMilli(), address,
	)
	if err != nil {
		return fmt.Errorf("set paired for %q: %w", address, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set paired for %q: %w", address, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHost(row rowScanner) (*Host, error) {
	var host Host
	var paired int
	var httpsPort sql.NullInt64
	var lastSeen sql.NullInt64

	if err := row.Scan(&host.Address, &host.Hostname, &host.MAC, &paired, &httpsPort, &lastSeen); err != nil {
		return nil, err
	}

	host.Paired = paired != 0
	host.HTTPSPort = int(httpsPort.Int64)
	host.LastSeenTimestamp = lastSeen.Int64
	return &host, nil
}
