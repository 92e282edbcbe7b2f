// Package store defines the key-value store interface and its backends.
package store

import "context"

// Store is the interface that all backing stores must implement.
// It maps string keys to raw byte values. The website collection and
// the static assets share one Store.
type Store interface {
	// Get returns the value stored under key. A missing key is reported
	// with found == false and a nil error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put inserts or replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}
