package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ahnaineh/GITGAME/internal/session"
	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 2

// SQLiteStore keeps sessions in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates a SQLite database at the given path
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(1000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers the way bolt does
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Initialize creates the schema and applies pending migrations
func (s *SQLiteStore) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	CREATE TABLE IF NOT EXISTS gitgame_schema_version (
		version INTEGER PRIMARY KEY
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return s.RunMigrations()
}

// RunMigrations applies any pending schema migrations
func (s *SQLiteStore) RunMigrations() error {
	version, err := s.schemaVersion()
	if err != nil {
		return err
	}

	if version < 2 {
		if err := s.migrateSchemaToV2(); err != nil {
			return fmt.Errorf("migration to v2 failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) schemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 1) FROM gitgame_schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// migrateSchemaToV2 adds listing columns so sessions can be listed without decoding
func (s *SQLiteStore) migrateSchemaToV2() error {
	if !s.columnExists("sessions", "level_id") {
		if _, err := s.db.Exec(`ALTER TABLE sessions ADD COLUMN level_id INTEGER NOT NULL DEFAULT 0`); err != nil {
			return err
		}
	}
	if !s.columnExists("sessions", "updated_at") {
		if _, err := s.db.Exec(`ALTER TABLE sessions ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0`); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`); err != nil {
		return err
	}

	_, err := s.db.Exec("INSERT OR REPLACE INTO gitgame_schema_version (version) VALUES (?)", currentSchemaVersion)
	return err
}

// columnExists checks if a column exists in a table
func (s *SQLiteStore) columnExists(table, column string) bool {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&count)
	return err == nil && count > 0
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// SaveSession writes a session, replacing any previous version
func (s *SQLiteStore) SaveSession(sess *session.Session) error {
	return putSession(s.db, sess)
}

// GetSession loads a session by id
func (s *SQLiteStore) GetSession(id string) (*session.Session, error) {
	return getSession(s.db, id)
}

// ListSessions returns every stored session, most recently updated first
func (s *SQLiteStore) ListSessions() ([]Summary, error) {
	rows, err := s.db.Query(`SELECT id, level_id, updated_at FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.LevelID, &updated); err != nil {
			return nil, err
		}
		sum.UpdatedAt = time.UnixMilli(updated)
		list = append(list, sum)
	}
	return list, rows.Err()
}

// DeleteSession removes a session
func (s *SQLiteStore) DeleteSession(id string) error {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// UpdateSession runs fn against the stored session inside one transaction
func (s *SQLiteStore) UpdateSession(id string, fn func(*session.Session) error) (*session.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sess, err := getSession(tx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := putSession(tx, sess); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return sess, nil
}

// GetValue gets a value from the key-value store
func (s *SQLiteStore) GetValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetValue sets a value in the key-value store
func (s *SQLiteStore) SetValue(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = ?",
		key, value, value,
	)
	return err
}

func putSession(db execer, sess *session.Session) error {
	data, err := encodeSession(sess)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO sessions (id, data, level_id, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, level_id = excluded.level_id, updated_at = excluded.updated_at
	`, sess.ID, data, sess.LevelID, sess.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func getSession(db execer, id string) (*session.Session, error) {
	var data []byte
	err := db.QueryRow(`SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(data)
}
