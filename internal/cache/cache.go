// Package cache holds short lived copies of data fetched from slow collaborators.
package cache

import "time"

// Cache is a keyed store whose entries may expire.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Clock returns the current time. Tests replace it to move past a TTL.
type Clock func() time.Time
