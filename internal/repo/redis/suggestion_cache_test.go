package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) (*SuggestionCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := NewClient(srv.Addr(), "", 0)
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewSuggestionCache(client, time.Minute), srv
}

func TestSuggestionCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, hit, err := cache.Get(ctx, 1); err != nil || hit {
		t.Fatalf("expected clean miss, hit=%v err=%v", hit, err)
	}

	items := []CachedCandidate{
		{ID: 2, Username: "bob", Email: "bob@uni.edu"},
		{ID: 3, Username: "carol", Email: "carol@uni.edu"},
	}
	if err := cache.Set(ctx, 1, items); err != nil {
		t.Fatalf("set suggestions: %v", err)
	}

	got, hit, err := cache.Get(ctx, 1)
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].Username != "carol" {
		t.Fatalf("unexpected cached items: %+v", got)
	}
}

func TestSuggestionCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, 1, []CachedCandidate{{ID: 2, Username: "bob", Email: "bob@uni.edu"}}); err != nil {
		t.Fatalf("set suggestions: %v", err)
	}
	if err := cache.Invalidate(ctx, 1); err != nil {
		t.Fatalf("invalidate suggestions: %v", err)
	}

	if _, hit, err := cache.Get(ctx, 1); err != nil || hit {
		t.Fatalf("expected miss after invalidation, hit=%v err=%v", hit, err)
	}
}

func TestSuggestionCacheTreatsCorruptPayloadAsMiss(t *testing.T) {
	cache, srv := newTestCache(t)

	if err := srv.Set("suggestions:1", "{not json"); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}

	if _, hit, err := cache.Get(context.Background(), 1); err != nil || hit {
		t.Fatalf("corrupt payload must be a miss, hit=%v err=%v", hit, err)
	}
}

func TestSuggestionCacheEntriesExpire(t *testing.T) {
	srv := miniredis.RunT(t)
	client := NewClient(srv.Addr(), "", 0)
	t.Cleanup(func() {
		_ = client.Close()
	})
	cache := NewSuggestionCache(client, time.Second)
	ctx := context.Background()

	if err := cache.Set(ctx, 1, []CachedCandidate{{ID: 2, Username: "bob", Email: "bob@uni.edu"}}); err != nil {
		t.Fatalf("set suggestions: %v", err)
	}

	srv.FastForward(2 * time.Second)

	if _, hit, err := cache.Get(ctx, 1); err != nil || hit {
		t.Fatalf("expected miss after ttl, hit=%v err=%v", hit, err)
	}
}
