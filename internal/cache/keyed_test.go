package cache

import (
	"context"
	"testing"
	"time"
)

func TestStoreSetGet(t *testing.T) {
	store := NewStoreWithBackend(NewMemoryBackend(), time.Minute)
	ctx := context.Background()

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for absent key")
	}

	if err := store.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok := store.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(value) != "v1" {
		t.Fatalf("value = %q, want v1", value)
	}
}

func TestStoreInvalidate(t *testing.T) {
	store := NewStoreWithBackend(NewMemoryBackend(), time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	store.Invalidate()
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after invalidate")
	}

	if err := store.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok := store.Get(ctx, "k")
	if !ok || string(value) != "v2" {
		t.Fatalf("got (%q, %v), want (v2, true)", value, ok)
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStoreWithBackend(backend, time.Minute)
	ctx := context.Background()

	stale := &Entry{
		Value:     []byte("old"),
		Timestamp: time.Now().Add(-2 * time.Minute).Unix(),
		Version:   1,
	}
	if err := backend.Set(ctx, "k", stale, 0); err != nil {
		t.Fatalf("backend set: %v", err)
	}
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss for entry older than ttl")
	}
}
