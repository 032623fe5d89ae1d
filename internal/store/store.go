package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// ErrInvalidRange is returned when a block's end time is not after its start.
var ErrInvalidRange = errors.New("block end time must be after start time")

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS time_blocks (
		id                      INTEGER PRIMARY KEY AUTOINCREMENT,
		title                   TEXT NOT NULL,
		description             TEXT NOT NULL DEFAULT '',
		start_time              TEXT NOT NULL,
		end_time                TEXT NOT NULL,
		block_type              TEXT NOT NULL DEFAULT 'task',
		color                   TEXT NOT NULL DEFAULT '#7C3AED',
		is_recurring            INTEGER NOT NULL DEFAULT 0,
		recurrence_freq         TEXT NOT NULL DEFAULT '',
		recurrence_interval     INTEGER NOT NULL DEFAULT 0,
		parent_block_id         INTEGER REFERENCES time_blocks(id),
		buffer_minutes          INTEGER NOT NULL DEFAULT 0,
		energy_level            TEXT NOT NULL DEFAULT '',
		completed_at            TEXT,
		reminder_minutes_before INTEGER NOT NULL DEFAULT 0,
		created_at              TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		CHECK (end_time > start_time)
	);

	CREATE INDEX IF NOT EXISTS idx_blocks_start  ON time_blocks(start_time);
	CREATE INDEX IF NOT EXISTS idx_blocks_parent ON time_blocks(parent_block_id);

	CREATE TABLE IF NOT EXISTS daily_plans (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		date           TEXT NOT NULL UNIQUE,
		top_priorities TEXT NOT NULL DEFAULT '[]',
		intention      TEXT NOT NULL DEFAULT '',
		reflection     TEXT NOT NULL DEFAULT '',
		is_completed   INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT
	);

	CREATE TABLE IF NOT EXISTS pomodoro_sessions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		time_block_id    INTEGER REFERENCES time_blocks(id) ON DELETE SET NULL,
		phase            TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		started_at       TEXT NOT NULL,
		ended_at         TEXT,
		was_completed    INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		title     TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		priority  TEXT NOT NULL DEFAULT 'medium',
		due_time  TEXT
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('pomodoro_work',       '1500'),
		('pomodoro_break',      '300'),
		('pomodoro_long_break', '900'),
		('pomodoro_target',     '4'),
		('hour_height',         '60'),
		('recur_horizon_days',  '30'),
		('day_start_hour',      '6');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/blockflow/blockflow.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "blockflow", "blockflow.db"), nil
}
