package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash BYTEA NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    totp_secret TEXT,
    failed_attempts INT NOT NULL DEFAULT 0,
    locked_until BIGINT,
    password_changed_at BIGINT NOT NULL,
    access_start_minute INT,
    access_end_minute INT,
    display_name TEXT,
    contact TEXT,
    language TEXT,
    date_format TEXT,
    time_format TEXT,
    gender TEXT,
    image_url TEXT
);

CREATE TABLE IF NOT EXISTS privileges (
    id TEXT PRIMARY KEY,
    parent_id TEXT REFERENCES privileges(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    resource TEXT,
    path TEXT,
    icon TEXT,
    sequence INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS user_roles (
    user_id TEXT REFERENCES users(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    PRIMARY KEY (user_id, role)
);

CREATE TABLE IF NOT EXISTS user_privileges (
    user_id TEXT REFERENCES users(id) ON DELETE CASCADE,
    privilege_id TEXT REFERENCES privileges(id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, privilege_id)
);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
