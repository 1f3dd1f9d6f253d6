// Package history is an opt-in audit log of recognition results, used by the
// CLI. The recognition core itself never persists anything.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/korean-dog/receipt-recognizer/internal/recognizer"
)

const bucketName = "recognitions"

// Entry is one recorded recognition.
type Entry struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	SourceKind string            `json:"source_kind"`
	Success    bool              `json:"success"`
	Fields     recognizer.Fields `json:"fields"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Store is a bbolt-backed append-only history of recognitions.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) a history database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records one recognition. An empty ID or zero CreatedAt is filled in.
func (s *Store) Append(entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("%d", entry.CreatedAt.UnixNano())
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling entry: %w", err)
		}
		return bucket.Put([]byte(entry.ID), data)
	})
}

// List returns all recorded recognitions in insertion order.
func (s *Store) List() ([]*Entry, error) {
	entries := make([]*Entry, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshaling entry: %w", err)
			}
			entries = append(entries, &entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
