package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestScopedKeys(t *testing.T) {
	if got := CartKey(""); got != "cart_items" {
		t.Fatalf("expected anonymous cart key cart_items, got %q", got)
	}
	if got := CartKey("u-42"); got != "cart_items_user_u-42" {
		t.Fatalf("unexpected cart key %q", got)
	}
	if got := WishlistKey(""); got != "wishlist_items" {
		t.Fatalf("expected anonymous wishlist key wishlist_items, got %q", got)
	}
	if got := WishlistKey("u-42"); got != "wishlist_items_user_u-42" {
		t.Fatalf("unexpected wishlist key %q", got)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key to report absent, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected value present, got ok=%v err=%v", ok, err)
	}
	if string(value) != "v1" {
		t.Fatalf("expected v1, got %q", value)
	}

	// Last write wins.
	if err := store.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	value, _, _ = store.Get(ctx, "k")
	if string(value) != "v2" {
		t.Fatalf("expected v2, got %q", value)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	payload := []byte("original")
	if err := store.Put(ctx, "k", payload); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	payload[0] = 'X'

	value, _, _ := store.Get(ctx, "k")
	if string(value) != "original" {
		t.Fatalf("expected stored value isolated from caller mutation, got %q", value)
	}

	value[0] = 'Y'
	again, _, _ := store.Get(ctx, "k")
	if string(again) != "original" {
		t.Fatalf("expected returned value isolated, got %q", again)
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("v")); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
	if _, _, err := store.Get(ctx, "k"); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key to report absent, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, "cart_items", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	if err := store.Put(ctx, "cart_items", []byte(`[{"id":2}]`)); err != nil {
		t.Fatalf("unexpected upsert error: %v", err)
	}

	value, ok, err := store.Get(ctx, "cart_items")
	if err != nil || !ok {
		t.Fatalf("expected value present, got ok=%v err=%v", ok, err)
	}
	if string(value) != `[{"id":2}]` {
		t.Fatalf("expected last write to win, got %q", value)
	}

	if err := store.Delete(ctx, "cart_items"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "cart_items"); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error reopening store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	value, ok, err := reopened.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected persisted value after reopen, got ok=%v err=%v", ok, err)
	}
	if string(value) != "v" {
		t.Fatalf("expected v, got %q", value)
	}
}

func TestPersistentLoadJSON(t *testing.T) {
	backing := NewMemoryStore()
	persistence, err := NewPersistent(backing, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	var dest []int

	// Missing key leaves the default untouched.
	persistence.LoadJSON(ctx, "absent", &dest)
	if dest != nil {
		t.Fatalf("expected default untouched for missing key, got %v", dest)
	}

	// Corrupt payload leaves the default untouched.
	_ = backing.Put(ctx, "bad", []byte("{nope"))
	persistence.LoadJSON(ctx, "bad", &dest)
	if dest != nil {
		t.Fatalf("expected default untouched for corrupt payload, got %v", dest)
	}

	persistence.SaveJSON(ctx, "good", []int{1, 2, 3})
	persistence.LoadJSON(ctx, "good", &dest)
	if len(dest) != 3 || dest[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", dest)
	}

	persistence.Remove(ctx, "good")
	if _, ok, _ := backing.Get(ctx, "good"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestPersistentSwallowsWriteFailures(t *testing.T) {
	backing := NewMemoryStore()
	persistence, err := NewPersistent(backing, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	_ = backing.Close()

	// No panic and no error surface; the failure is logged only.
	persistence.SaveJSON(ctx, "k", []int{1})
	persistence.Remove(ctx, "k")
	var dest []int
	persistence.LoadJSON(ctx, "k", &dest)
	if dest != nil {
		t.Fatalf("expected default untouched when the store is closed, got %v", dest)
	}
}

func TestNewPersistentRequiresStore(t *testing.T) {
	if _, err := NewPersistent(nil, nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
