package cookie

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cookies (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
`

// SQLiteStore is a file-backed Store for command-line and desktop
// embedders that need "remember me" to survive process restarts.
//
// The Store contract has no error channel, so storage failures degrade
// to the fail-open behavior of the codec: a failed Set leaves nothing
// to restore and a failed Get reads as absent.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the cookie database at
// path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Set(key, value string, expires time.Time) {
	_, _ = s.db.Exec(
		`INSERT INTO cookies (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expires.Unix(),
	)
}

// Get returns the stored value, or an empty string when the key is
// absent, expired, or unreadable. Expired rows are removed lazily.
func (s *SQLiteStore) Get(key string) string {
	var value string
	var expiresAt int64
	err := s.db.QueryRow(
		`SELECT value, expires_at FROM cookies WHERE key = ?`,
		key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return ""
	}
	if time.Now().Unix() > expiresAt {
		s.Delete(key)
		return ""
	}
	return value
}

func (s *SQLiteStore) Delete(key string) {
	_, _ = s.db.Exec(`DELETE FROM cookies WHERE key = ?`, key)
}
