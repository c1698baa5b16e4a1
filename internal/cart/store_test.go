package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, RedisConfig{TTL: ttl}), mr
}

// exerciseStore checks the contract every backend must honour.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	added, err := s.Add(ctx, "u1", Item{PromptID: "p1"})
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	added, err = s.Add(ctx, "u1", Item{PromptID: "p1"})
	if err != nil || added {
		t.Fatalf("duplicate add: added=%v err=%v", added, err)
	}
	if _, err := s.Add(ctx, "u1", Item{PromptID: "p2"}); err != nil {
		t.Fatalf("add p2: %v", err)
	}
	if _, err := s.Add(ctx, "u2", Item{PromptID: "p1"}); err != nil {
		t.Fatalf("add for other owner: %v", err)
	}

	items, err := s.List(ctx, "u1")
	if err != nil || len(items) != 2 {
		t.Fatalf("list: %v %v", items, err)
	}

	if err := s.Remove(ctx, "u1", "missing"); err != nil {
		t.Fatalf("removing an absent prompt should be a no-op: %v", err)
	}
	if err := s.Remove(ctx, "u1", "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, _ = s.List(ctx, "u1")
	if len(items) != 1 || items[0].PromptID != "p2" {
		t.Fatalf("after remove: %v", items)
	}

	if err := s.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, _ = s.List(ctx, "u1")
	if len(items) != 0 {
		t.Fatalf("after clear: %v", items)
	}
	other, _ := s.List(ctx, "u2")
	if len(other) != 1 {
		t.Fatalf("clear leaked into another owner: %v", other)
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := s.Add(ctx, "u3", Item{PromptID: "p1", AddedAt: at}); err != nil {
		t.Fatalf("add with time: %v", err)
	}
	if _, err := s.Add(ctx, "u3", Item{PromptID: "p2"}); err != nil {
		t.Fatalf("add p2: %v", err)
	}
	items, _ = s.List(ctx, "u3")
	if len(items) != 2 || items[1].PromptID != "p1" || !items[1].AddedAt.Equal(at) {
		t.Fatalf("given addedAt not kept: %v", items)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t, time.Hour)
	exerciseStore(t, s)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	for _, id := range []string{"a", "b", "c"} {
		_, _ = s.Add(context.Background(), "u", Item{PromptID: id})
	}
	items, _ := s.List(context.Background(), "u")
	if items[0].PromptID != "c" || items[2].PromptID != "a" {
		t.Fatalf("order: %v", items)
	}
}

func TestRedisStore_KeyLayoutAndTTL(t *testing.T) {
	s, mr := newRedisStore(t, 2*time.Hour)
	if _, err := s.Add(context.Background(), "user_9", Item{PromptID: "p1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !mr.Exists("prompt_cart:user_9") {
		t.Fatalf("expected hash prompt_cart:user_9, keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("prompt_cart:user_9"); ttl != 2*time.Hour {
		t.Fatalf("ttl=%s", ttl)
	}
	raw := mr.HGet("prompt_cart:user_9", "p1")
	if _, err := time.Parse(time.RFC3339Nano, raw); err != nil {
		t.Fatalf("addedAt %q not RFC3339: %v", raw, err)
	}

	mr.FastForward(3 * time.Hour)
	items, _ := s.List(context.Background(), "user_9")
	if len(items) != 0 {
		t.Fatalf("expired cart still listed: %v", items)
	}
}
