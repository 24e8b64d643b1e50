// Package cache provides the key-value stores behind the reader's
// cache-aside path: memcached, a local bitcask store and an in-memory map.
package cache

import (
	"github.com/jmgilman/go/errors"
)

// ErrNotFound is returned when a cache key is not found.
var ErrNotFound = errors.New(errors.CodeNotFound, "cache: key not found")

// Cache stores encoded images by key.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(key string) ([]byte, error)

	// Set stores a value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Close releases connections or file handles held by the cache.
	Close() error
}
