package storage

import (
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested row does not exist.
	ErrNotFound = errors.New("storage: record not found")
)

// Host is one known streaming host.
type Host struct {
	Address           string
	Hostname          string
	MAC               string
	Paired            bool
	HTTPSPort         int
	LastSeenTimestamp int64
}

// Favorite is one pinned application on a known host.
type Favorite struct {
	HostAddress string
	AppID       int
	AppTitle    string
}

func nowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
