package localize

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings, populated from the environment. The zero
// RedisURL selects the in-process cache backend.
type Config struct {
	// DSN is the relational database source name.
	DSN string `env:"LOCALIZE_DSN" envDefault:"file::memory:?cache=shared"`
	// RedisURL selects the redis cache backend when set, for example
	// "redis://localhost:6379/0".
	RedisURL string `env:"LOCALIZE_REDIS_URL"`
	// BundleTTL is the staleness ceiling applied to every cached bundle.
	BundleTTL time.Duration `env:"LOCALIZE_BUNDLE_TTL" envDefault:"5m"`
	// CacheCapacity bounds the in-process backend, in bundles per kind.
	CacheCapacity int `env:"LOCALIZE_CACHE_CAPACITY" envDefault:"10000"`
	// CacheShards controls the in-process backend's concurrency.
	CacheShards int `env:"LOCALIZE_CACHE_SHARDS" envDefault:"64"`
	// CacheEvictionPercentage is how much of a full shard to evict, 1-100.
	CacheEvictionPercentage int `env:"LOCALIZE_CACHE_EVICTION_PCT" envDefault:"10"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
