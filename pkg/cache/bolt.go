package cache

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const bucketCache = "cache"

// BoltStorage is a Storage backed by a bbolt database file.
type BoltStorage struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the cache database at path.
func OpenBolt(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCache))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache bucket: %w", err)
	}

	return &BoltStorage{db: db}, nil
}

// Close closes the database.
func (s *BoltStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value under key, or nil if absent.
func (s *BoltStorage) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketCache))
		if bucket == nil {
			return bbolt.ErrBucketNotFound
		}
		if v := bucket.Get([]byte(key)); v != nil {
			// Values are only valid inside the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

// Set stores value under key.
func (s *BoltStorage) Set(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketCache))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
}

// Delete removes key.
func (s *BoltStorage) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketCache))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

// Keys returns the keys starting with prefix in byte order.
func (s *BoltStorage) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketCache))
		if bucket == nil {
			return nil
		}
		p := []byte(prefix)
		c := bucket.Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}
