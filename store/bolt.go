package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const kvBucket = "kv"

// BoltStore stores all keys in one bucket of a bbolt database file.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	s := &BoltStore{db: db}
	if err := s.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var value []byte
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("%s bucket is missing", kvBucket)
		}
		// Returned slices are only valid for the lifetime of the transaction.
		if v := bucket.Get([]byte(key)); v != nil {
			value = append([]byte{}, v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

func (s *BoltStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if value == nil {
		value = []byte{}
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("%s bucket is missing", kvBucket)
		}
		return bucket.Put([]byte(key), value)
	})
}

func (s *BoltStore) ensureBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(kvBucket)); err != nil {
			return fmt.Errorf("create %s bucket: %w", kvBucket, err)
		}
		return nil
	})
}
