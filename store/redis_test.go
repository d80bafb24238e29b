package store

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *RedisStateStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStateStore(client)
}

func TestRedisKV(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get("agent1", "emotion")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty value for missing key, got %q", got)
	}

	if err := s.Set("agent1", "emotion", `{"primary":"calm"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err = s.Get("agent1", "emotion")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"primary":"calm"}` {
		t.Fatalf("unexpected value: %q", got)
	}

	if err := s.Delete("agent1", "emotion"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = s.Get("agent1", "emotion")
	if got != "" {
		t.Fatalf("expected empty after delete, got %q", got)
	}
}

func TestRedisNamespaceIsolation(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("agent1", "vitals", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("agent2", "vitals", "b"); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Get("agent1", "vitals")
	if got != "a" {
		t.Fatalf("namespace bleed: got %q", got)
	}
}

func TestRedisListAppendAndTrim(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 10; i++ {
		if err := s.Append("agent1", "memories", fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	n, err := s.ListLength("agent1", "memories")
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if n != 10 {
		t.Fatalf("expected 10 entries, got %d", n)
	}

	// trim keeps the newest entries
	if err := s.TrimList("agent1", "memories", 4); err != nil {
		t.Fatalf("trim: %v", err)
	}
	vals, err := s.GetList("agent1", "memories", 0, 0)
	if err != nil {
		t.Fatalf("getlist: %v", err)
	}
	if len(vals) != 4 {
		t.Fatalf("expected 4 after trim, got %d", len(vals))
	}
	if vals[0] != "m6" || vals[3] != "m9" {
		t.Fatalf("trim kept the wrong end: %v", vals)
	}
}

func TestRedisListWindow(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		_ = s.Append("a", "k", fmt.Sprintf("v%d", i))
	}

	vals, err := s.GetList("a", "k", 2, 1)
	if err != nil {
		t.Fatalf("getlist: %v", err)
	}
	if len(vals) != 2 || vals[0] != "v1" || vals[1] != "v2" {
		t.Fatalf("unexpected window: %v", vals)
	}
}

func TestRedisClearList(t *testing.T) {
	s := newTestStore(t)
	_ = s.Append("a", "k", "v")
	if err := s.ClearList("a", "k"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, _ := s.ListLength("a", "k")
	if n != 0 {
		t.Fatalf("expected empty list, got %d", n)
	}
}
