package cache

import (
	"context"
	"testing"
	"time"

	"github.com/AbsonDev/estoque-max/internal/model"
)

func TestMemoryStore_GetAbsent(t *testing.T) {
	store := NewMemoryStore()

	entry, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil for a missing entry, got %+v", entry)
	}
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	if err := store.Put(ctx, "item-1", Entry{DaysRemaining: 5, CachedAt: now}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Put(ctx, "item-1", Entry{DaysRemaining: 3, CachedAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, err := store.Get(ctx, "item-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil || entry.DaysRemaining != 3 {
		t.Errorf("expected the overwritten entry, got %+v", entry)
	}
}

func TestMemoryStore_EvictOlderThan(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	entries := map[string]Entry{
		"stale-1": {CachedAt: now.AddDate(0, 0, -10)},
		"stale-2": {CachedAt: now.AddDate(0, 0, -8)},
		"fresh":   {CachedAt: now.AddDate(0, 0, -1), Forecast: model.Forecast{MeanDaily: 1}},
	}
	for id, e := range entries {
		if err := store.Put(ctx, id, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	evicted, err := store.EvictOlderThan(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evicted != 2 {
		t.Errorf("expected 2 evictions, got %d", evicted)
	}

	if entry, _ := store.Get(ctx, "fresh"); entry == nil {
		t.Error("expected the fresh entry to survive")
	}
	if entry, _ := store.Get(ctx, "stale-1"); entry != nil {
		t.Error("expected the stale entry to be gone")
	}
}
