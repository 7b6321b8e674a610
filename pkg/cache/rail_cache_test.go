package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

func newTestCache(t *testing.T) (*RedisRailCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRailCacheFromClient(client, time.Minute), mr
}

func TestRailCacheMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "featured")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss on empty cache")
	}

	want := []domain.Video{{ID: "v1", Title: "Stranger Things", Featured: true}}
	if err := c.Set(ctx, "featured", want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, "featured")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after set")
	}
	if len(got) != 1 || got[0].ID != "v1" || got[0].Title != "Stranger Things" {
		t.Fatalf("unexpected cached videos: %+v", got)
	}
}

func TestRailCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "trending", []domain.Video{{ID: "v2"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "trending")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestRailCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "featured", []domain.Video{{ID: "v1"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set(ctx, "trending", []domain.Video{{ID: "v2"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Invalidate(ctx, "featured", "trending"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	for _, rail := range []string{"featured", "trending"} {
		if _, ok, _ := c.Get(ctx, rail); ok {
			t.Fatalf("rail %q still cached after invalidate", rail)
		}
	}
}
