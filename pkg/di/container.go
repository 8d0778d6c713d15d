// Package di wires the service graph from configuration: relational store,
// cache backends, bundle services and the localize facade.
package di

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	localize "github.com/goliatone/go-localize"
	"github.com/goliatone/go-localize/bundle"
	"github.com/goliatone/go-localize/internal/cachestore"
	"github.com/goliatone/go-localize/store"
)

// Container manages singleton instances of the store, the per-kind bundle
// services and the service facade.
type Container struct {
	config  localize.Config
	db      *bun.DB
	service *localize.Service

	templateBundles *bundle.Service
	valueBundles    *bundle.Service
}

// NewContainer builds the full graph from config. The cache backend is redis
// when RedisURL is set and in-process otherwise; each bundle kind gets its own
// namespaced store so key indexes never mix.
func NewContainer(config localize.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := store.Open(config.DSN)
	if err != nil {
		return nil, err
	}

	templateStore, err := newCacheStore(config, bundle.NamespaceTemplate)
	if err != nil {
		db.Close()
		return nil, err
	}
	valueStore, err := newCacheStore(config, bundle.NamespaceValue)
	if err != nil {
		db.Close()
		return nil, err
	}

	templateBundles := bundle.NewService(templateStore, config.BundleTTL, logger)
	valueBundles := bundle.NewService(valueStore, config.BundleTTL, logger)

	return &Container{
		config:          config,
		db:              db,
		templateBundles: templateBundles,
		valueBundles:    valueBundles,
		service:         localize.New(db, templateBundles, valueBundles, logger),
	}, nil
}

// NewContainerWithDefaults builds the graph from the environment.
func NewContainerWithDefaults(logger *slog.Logger) (*Container, error) {
	config, err := localize.LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewContainer(config, logger)
}

// Service returns the singleton service facade.
func (c *Container) Service() *localize.Service {
	return c.service
}

// DB returns the underlying database handle, for embedded setups that run
// schema creation or seeding themselves.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() localize.Config {
	return c.config
}

// CreateSchema creates the relational schema. Idempotent; embedded setups call
// it once at startup, production installs own their migrations.
func (c *Container) CreateSchema(ctx context.Context) error {
	return store.CreateSchema(ctx, c.db)
}

// Close releases the database handle.
func (c *Container) Close() error {
	return c.db.Close()
}

func newCacheStore(config localize.Config, namespace string) (cachestore.Store, error) {
	if config.RedisURL != "" {
		return cachestore.NewRedisFromURL(config.RedisURL, namespace)
	}
	cfg := cachestore.DefaultMemoryConfig()
	cfg.Capacity = config.CacheCapacity
	cfg.NumShards = config.CacheShards
	cfg.TTL = config.BundleTTL
	cfg.EvictionPercentage = config.CacheEvictionPercentage
	return cachestore.NewMemory(cfg)
}
