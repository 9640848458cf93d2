// Package cache defines the key-value store used for read-through caching
// of reference data. The store is injected explicitly: it is opened once at
// process start and carries no TTL, so cached entries live until the key is
// deleted or the store is reopened.
package cache

// Store is a minimal byte-oriented key-value cache.
type Store interface {
	// Get returns the value for key, reporting whether it was present.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
