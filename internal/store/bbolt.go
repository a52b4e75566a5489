package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ahnaineh/GITGAME/internal/session"
	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the bolt store.
var (
	bucketSessions = []byte("sessions")
	bucketKV       = []byte("kv")
)

// BoltStore keeps sessions in a single embedded bbolt file.
type BoltStore struct {
	db *bolt.DB
}

// NewBolt opens or creates a bbolt database at the given path.
func NewBolt(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize creates all required buckets.
func (s *BoltStore) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSessions, bucketKV} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// SaveSession writes a session, replacing any previous version.
func (s *BoltStore) SaveSession(sess *session.Session) error {
	data, err := encodeSession(sess)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(sess.ID), data)
	})
}

// GetSession loads a session by id.
func (s *BoltStore) GetSession(id string) (*session.Session, error) {
	var sess *session.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		sess, err = loadSession(tx, id)
		return err
	})
	return sess, err
}

// ListSessions returns every stored session, most recently updated first.
func (s *BoltStore) ListSessions() ([]Summary, error) {
	var list []Summary
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, v []byte) error {
			sess, err := decodeSession(v)
			if err != nil {
				return fmt.Errorf("decode session %s: %w", k, err)
			}
			list = append(list, summarize(sess))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

// DeleteSession removes a session.
func (s *BoltStore) DeleteSession(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return b.Delete([]byte(id))
	})
}

// UpdateSession runs fn against the stored session inside one write
// transaction. Nothing is written if fn fails.
func (s *BoltStore) UpdateSession(id string, fn func(*session.Session) error) (*session.Session, error) {
	var sess *session.Session
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		if sess, err = loadSession(tx, id); err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}

		data, err := encodeSession(sess)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSessions).Put([]byte(id), data)
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// GetValue gets a value from the key-value bucket.
func (s *BoltStore) GetValue(key string) (string, error) {
	var val string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketKV).Get([]byte(key)); v != nil {
			val = string(v)
		}
		return nil
	})
	return val, err
}

// SetValue sets a value in the key-value bucket.
func (s *BoltStore) SetValue(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), []byte(value))
	})
}

func loadSession(tx *bolt.Tx, id string) (*session.Session, error) {
	v := tx.Bucket(bucketSessions).Get([]byte(id))
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return decodeSession(v)
}
