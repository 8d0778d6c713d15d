// Package cachestore provides the key-value adapters bundles are persisted in.
// Every implementation maintains a live-key index as part of the same logical
// operation as each write or delete, so the index can never drift from the data.
package cachestore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for absent or expired keys.
var ErrNotFound = errors.New("cachestore: key not found")

// Store is a namespaced byte store with a live-key index. One Store instance
// serves one bundle kind.
type Store interface {
	// Get returns the payload for id, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	// Set writes the payload under id with the given TTL and registers id in
	// the key index.
	Set(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	// Delete removes the payload and deregisters id from the key index.
	Delete(ctx context.Context, id string) error
	// Exists reports whether id currently holds a payload, without reading it.
	Exists(ctx context.Context, id string) (bool, error)
	// Keys returns the indexed ids in lexical order. Ids whose payload expired
	// may still be listed; readers skip what they cannot fetch.
	Keys(ctx context.Context) ([]string, error)
}
