// Package persistence provides SQLite-based snapshot storage for the
// simulation. The engine hands over one opaque serialized unit; this layer
// stores it versioned alongside a small key/value meta table. A missing or
// corrupt snapshot is a hard failure, never a silent fresh start.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SchemaVersion marks the snapshot payload format. Restores refuse
// payloads written by a different schema.
const SchemaVersion = 1

// ErrNoSnapshot is returned when a restore finds nothing saved.
var ErrNoSnapshot = errors.New("no snapshot saved")

// DB wraps a SQLite connection for snapshot persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		schema_version INTEGER NOT NULL,
		week INTEGER NOT NULL,
		saved_at TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

type snapshotRow struct {
	ID            string `db:"id"`
	SchemaVersion int    `db:"schema_version"`
	Week          int    `db:"week"`
	SavedAt       string `db:"saved_at"`
	Payload       []byte `db:"payload"`
}

// SaveSnapshot stores one serialized simulation and points the meta table
// at it. Earlier snapshots are kept for inspection; the latest pointer is
// what LoadLatest follows.
func (db *DB) SaveSnapshot(week int, payload []byte) (string, error) {
	id := uuid.NewString()
	tx, err := db.conn.Beginx()
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO snapshots (id, schema_version, week, saved_at, payload) VALUES (?, ?, ?, ?, ?)`,
		id, SchemaVersion, week, time.Now().UTC().Format(time.RFC3339), payload,
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO sim_meta (key, value) VALUES ('latest_snapshot', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		id,
	)
	if err != nil {
		return "", fmt.Errorf("update latest pointer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return id, nil
}

// LoadLatest returns the payload the meta table points at. Absence is
// ErrNoSnapshot; a dangling pointer or schema mismatch is a loud failure.
func (db *DB) LoadLatest() ([]byte, error) {
	var id string
	err := db.conn.Get(&id, `SELECT value FROM sim_meta WHERE key = 'latest_snapshot'`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read latest pointer: %w", err)
	}
	return db.LoadSnapshot(id)
}

// LoadSnapshot returns one snapshot's payload by ID.
func (db *DB) LoadSnapshot(id string) ([]byte, error) {
	var row snapshotRow
	err := db.conn.Get(&row, `SELECT id, schema_version, week, saved_at, payload FROM snapshots WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", id, err)
	}
	if row.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("snapshot %s has schema version %d, want %d", id, row.SchemaVersion, SchemaVersion)
	}
	if len(row.Payload) == 0 {
		return nil, fmt.Errorf("snapshot %s has an empty payload", id)
	}
	return row.Payload, nil
}

// SetMeta writes one key/value pair.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO sim_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta reads one value; ok reports presence.
func (db *DB) GetMeta(key string) (string, bool, error) {
	var value string
	err := db.conn.Get(&value, `SELECT value FROM sim_meta WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get meta %s: %w", key, err)
	}
	return value, true, nil
}
