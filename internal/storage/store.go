package storage

import "errors"

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is a string key-value store.
//
// A single Get or Set is assumed indivisible. Remove with several keys is
// atomic where the backend supports it; otherwise keys are removed in
// argument order, so callers list the entries that must disappear first
// at the front. Absent keys are ignored by Remove.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(keys ...string) error
	ClearAll() error
}
