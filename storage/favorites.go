package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// AddFavorite pins an application on a host, replacing any existing entry
// for the same app id.
func (s *Store) AddFavorite(favorite Favorite) error {
	if favorite.HostAddress == "" {
		return errors.New("host_address is required")
	}
	if favorite.AppTitle == "" {
		return errors.New("app_title is required")
	}

	_, err := s.db.Exec(
		`INSERT INTO favorites (host_address, app_id, app_title)
		 VALUES (?, ?, ?)
		 ON CONFLICT(host_address, app_id) DO UPDATE SET
		   app_title = excluded.app_title`,
		favorite.HostAddress,
		favorite.AppID,
		favorite.AppTitle,
	)
	if err != nil {
		return fmt.Errorf("upsert favorite %d on %q: %w", favorite.AppID, favorite.HostAddress, err)
	}

	return nil
}

// RemoveFavorite unpins an application from a host.
func (s *Store) RemoveFavorite(hostAddress string, appID int) error {
	result, err := s.db.Exec(
		`DELETE FROM favorites WHERE host_address = ? AND app_id = ?`,
		hostAddress, appID,
	)
	if err != nil {
		return fmt.Errorf("remove favorite %d on %q: %w", appID, hostAddress, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove favorite %d on %q: %w", appID, hostAddress, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListFavorites returns a host's pinned applications sorted by title.
func (s *Store) ListFavorites(hostAddress string) ([]Favorite, error) {
	rows, err := s.db.Query(
		`SELECT host_address, app_id, app_title
		 FROM favorites
		 WHERE host_address = ?
		 ORDER BY app_title COLLATE NOCASE, app_id`,
		hostAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites for %q: %w", hostAddress, err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var favorite Favorite
		if err := rows.Scan(&favorite.HostAddress, &favorite.AppID, &favorite.AppTitle); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return favorites, nil
}

// IsFavorite reports whether an application is pinned on a host.
func (s *Store) IsFavorite(hostAddress string, appID int) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM favorites WHERE host_address = ? AND app_id = ?`,
		hostAddress, appID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check favorite %d on %q: %w", appID, hostAddress, err)
	}

	return true, nil
}
