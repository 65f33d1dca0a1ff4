package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory(10)
	defer m.Stop()
	ctx := context.Background()

	m.Set(ctx, "user.status:tourist", []byte(`{"status":"OK"}`), time.Minute)

	got, ok := m.Get(ctx, "user.status:tourist")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != `{"status":"OK"}` {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory(10)
	defer m.Stop()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory(10)
	defer m.Stop()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Minute)
	m.Delete(ctx, "k")

	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemory_EvictsOldestAtCapacity(t *testing.T) {
	m := NewMemory(3)
	defer m.Stop()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute)
		time.Sleep(2 * time.Millisecond)
	}
	// Touch k0 so k1 becomes the LRU entry.
	m.Get(ctx, "k0")
	m.Set(ctx, "k3", []byte("v"), time.Minute)

	if _, ok := m.Get(ctx, "k1"); ok {
		t.Fatal("expected k1 to be evicted")
	}
	if _, ok := m.Get(ctx, "k0"); !ok {
		t.Fatal("recently used k0 should survive")
	}
	if _, ok := m.Get(ctx, "k3"); !ok {
		t.Fatal("new entry should be present")
	}
}
