package cachestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the networked Store backend. Payloads live under
// "<namespace>:<id>"; the live-key index is one well-known SET per namespace,
// "<namespace>:index". Payload write and index update always travel in one
// MULTI/EXEC pipeline.
type Redis struct {
	client    redis.Cmdable
	namespace string
}

// NewRedis builds a Redis store bound to a namespace.
func NewRedis(client redis.Cmdable, namespace string) *Redis {
	return &Redis{client: client, namespace: namespace}
}

// NewRedisFromURL connects a client and binds it to a namespace.
func NewRedisFromURL(url, namespace string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedis(redis.NewClient(opts), namespace), nil
}

func (r *Redis) dataKey(id string) string {
	return r.namespace + ":" + id
}

func (r *Redis) indexKey() string {
	return r.namespace + ":index"
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, id string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.dataKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.dataKey(id), payload, ttl)
		pipe.SAdd(ctx, r.indexKey(), id)
		return nil
	})
	return err
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.dataKey(id))
		pipe.SRem(ctx, r.indexKey(), id)
		return nil
	})
	return err
}

// Exists implements Store.
func (r *Redis) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.dataKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Keys implements Store.
func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

var _ Store = (*Redis)(nil)
