// Package cache holds computed assessment and simulation results so repeated
// identical requests skip the recomputation.
package cache

// Cache is a small string key/value store.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
