package cachestore

import (
	"context"
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// MemoryConfig holds the in-process backend's cache parameters.
type MemoryConfig struct {
	// Capacity is the maximum number of bundles held before shard eviction.
	Capacity int
	// NumShards controls concurrent access; must be greater than 0.
	NumShards int
	// TTL is the staleness ceiling applied to every payload.
	TTL time.Duration
	// EvictionPercentage is how much of a full shard to evict, 1-100.
	EvictionPercentage int
}

// DefaultMemoryConfig returns parameters suitable for embedded use.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError reports an invalid MemoryConfig field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cachestore config: " + e.Field + " " + e.Message
}

// Memory is the in-process Store backend: a sturdyc client holds payloads with
// TTL and capacity eviction, an xsync map holds the key index. The index has no
// TTL of its own; ids whose payload expired surface as skippable misses, the
// same contract the redis backend exposes.
type Memory struct {
	payloads *sturdyc.Client[[]byte]
	index    *xsync.MapOf[string, struct{}]
}

// NewMemory builds a Memory store. Set's per-call TTL is ignored; the
// configured TTL is the single ceiling for this backend.
func NewMemory(cfg MemoryConfig) (*Memory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Memory{
		payloads: sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		index:    xsync.NewMapOf[string, struct{}](),
	}, nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id string) ([]byte, error) {
	payload, ok := m.payloads.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return payload, nil
}

// Set implements Store.
func (m *Memory) Set(ctx context.Context, id string, payload []byte, _ time.Duration) error {
	m.payloads.Set(id, payload)
	m.index.Store(id, struct{}{})
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.payloads.Delete(id)
	m.index.Delete(id)
	return nil
}

// Exists implements Store.
func (m *Memory) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.payloads.Get(id)
	return ok, nil
}

// Keys implements Store.
func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	var ids []string
	m.index.Range(func(id string, _ struct{}) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

var _ Store = (*Memory)(nil)
