// Package store persists game sessions. Two backends share one record
// format: an embedded bbolt file (the default) and SQLite.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahnaineh/GITGAME/internal/session"
)

// ErrSessionNotFound is returned when no session has the requested id
var ErrSessionNotFound = errors.New("session not found")

// Supported drivers
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Summary is a listing entry
type Summary struct {
	ID        string    `json:"id"`
	LevelID   int       `json:"level_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the session persistence interface
type Store interface {
	Initialize() error
	Close() error

	SaveSession(s *session.Session) error
	GetSession(id string) (*session.Session, error)
	ListSessions() ([]Summary, error)
	DeleteSession(id string) error
	// UpdateSession loads, mutates and saves a session atomically
	UpdateSession(id string, fn func(*session.Session) error) (*session.Session, error)

	GetValue(key string) (string, error)
	SetValue(key, value string) error
}

// Open opens and initializes the store for driver at path
func Open(driver, path string) (Store, error) {
	var (
		st  Store
		err error
	)
	switch driver {
	case "", DriverBolt:
		st, err = NewBolt(path)
	case DriverSQLite:
		st, err = NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Initialize(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func summarize(s *session.Session) Summary {
	return Summary{ID: s.ID, LevelID: s.LevelID, UpdatedAt: s.UpdatedAt}
}

var (
	_ Store = (*BoltStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
