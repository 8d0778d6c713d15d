package cachestore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newMemory(t *testing.T) *Memory {
	t.Helper()
	store, err := NewMemory(DefaultMemoryConfig())
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	return store
}

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)

	if _, err := store.Get(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "t1", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	payload, err := store.Get(ctx, "t1")
	if err != nil || string(payload) != "payload" {
		t.Errorf("Get = (%q, %v), want (payload, nil)", payload, err)
	}

	ok, err := store.Exists(ctx, "t1")
	if err != nil || !ok {
		t.Errorf("Exists = (%v, %v), want (true, nil)", ok, err)
	}

	if err := store.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryKeysTrackSetsAndDeletes(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)

	for _, id := range []string{"b", "a", "c"} {
		if err := store.Set(ctx, id, []byte(id), time.Minute); err != nil {
			t.Fatalf("Set(%s): %v", id, err)
		}
	}
	if err := store.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	ids, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Errorf("Keys = %v, want [a c]", ids)
	}
}

func TestMemoryConfigValidate(t *testing.T) {
	cases := []MemoryConfig{
		{Capacity: 0, NumShards: 1, TTL: time.Minute, EvictionPercentage: 10},
		{Capacity: 10, NumShards: 0, TTL: time.Minute, EvictionPercentage: 10},
		{Capacity: 10, NumShards: 1, TTL: 0, EvictionPercentage: 10},
		{Capacity: 10, NumShards: 1, TTL: time.Minute, EvictionPercentage: 0},
		{Capacity: 10, NumShards: 1, TTL: time.Minute, EvictionPercentage: 101},
	}
	for i, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: Validate succeeded, want error", i)
		}
	}
	if err := DefaultMemoryConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
