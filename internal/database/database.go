package database

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// TimeLayout is the storage format for timestamps: UTC with a fixed-width
// nanosecond fraction, so lexicographic comparison inside SQLite equals
// chronological comparison (RFC3339Nano trims trailing zeros and does not).
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored timestamp back into a time.Time.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wishes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		link TEXT,
		-- exact fixed-point price, scaled by 100
		price_cents INTEGER NOT NULL,
		notes TEXT,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_wishes_owner_id ON wishes(owner_id);

	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
