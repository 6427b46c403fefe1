// Package cache provides a small generic cache used to keep assembled
// budget reports warm between reads.
package cache

// Cache is a generic keyed cache.
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}
