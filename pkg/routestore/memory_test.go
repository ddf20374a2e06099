package routestore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx, DefaultKey); err != nil || ok {
		t.Fatalf("Load() on empty store = ok %v, err %v; want not found", ok, err)
	}

	if err := store.Save(ctx, DefaultKey, "/users/42"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(ctx, DefaultKey, "/settings"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	url, ok, err := store.Load(ctx, DefaultKey)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if url != "/settings" {
		t.Errorf("Load() = %q, want %q", url, "/settings")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Save(ctx, "a", "/a")
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "a"); ok {
		t.Error("key still present after Delete()")
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Close()

	var closed ErrStoreClosed
	if err := store.Save(ctx, "a", "/a"); !errors.As(err, &closed) {
		t.Errorf("Save() after Close() error = %v, want ErrStoreClosed", err)
	}
	if _, _, err := store.Load(ctx, "a"); !errors.As(err, &closed) {
		t.Errorf("Load() after Close() error = %v, want ErrStoreClosed", err)
	}
}
