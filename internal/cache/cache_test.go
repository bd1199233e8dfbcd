// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKeyCanonicalization(t *testing.T) {
	a := url.Values{}
	a.Set("category", "Tech")
	a.Set("page", "2")

	b := url.Values{}
	b.Set("page", "2")
	b.Set("category", "Tech")

	if Key("/api/blogs", a) != Key("/api/blogs", b) {
		t.Error("parameter order must not affect key equality")
	}
	if Key("/api/blogs", nil) != "/api/blogs" {
		t.Errorf("bare path key: got %q", Key("/api/blogs", nil))
	}
	if got, want := Key("/api/blogs", a), "/api/blogs?category=Tech&page=2"; got != want {
		t.Errorf("Key: got %q, want %q", got, want)
	}
}

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("expected miss on empty cache")
	}

	e := Entry{Status: 200, ContentType: "application/json", Body: []byte(`{"ok":true}`)}
	m.Set(ctx, "k", e, time.Minute)

	got, ok := m.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Status != 200 || string(got.Body) != `{"ok":true}` {
		t.Errorf("entry mismatch: %+v", got)
	}
}

func TestMemoryPassiveExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", Entry{Status: 200}, 20*time.Millisecond)
	if _, ok := m.Get(ctx, "k"); !ok {
		t.Fatal("expected hit within TTL")
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("expected miss after TTL elapsed")
	}
	if m.Len() != 0 {
		t.Errorf("expired entry should be dropped on read, Len=%d", m.Len())
	}
}

func TestMemoryDeletePrefix(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "/api/blogs?page=1", Entry{Status: 200}, time.Minute)
	m.Set(ctx, "/api/blogs/popular", Entry{Status: 200}, time.Minute)
	m.Set(ctx, "/api/categories", Entry{Status: 200}, time.Minute)

	m.DeletePrefix(ctx, "/api/blogs")

	if _, ok := m.Get(ctx, "/api/blogs?page=1"); ok {
		t.Error("listing entry should be invalidated")
	}
	if _, ok := m.Get(ctx, "/api/blogs/popular"); ok {
		t.Error("popular entry should be invalidated")
	}
	if _, ok := m.Get(ctx, "/api/categories"); !ok {
		t.Error("unrelated prefix must survive invalidation")
	}
}

func TestMemorySweeper(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Set(ctx, "short", Entry{Status: 200}, 10*time.Millisecond)
	m.Set(ctx, "long", Entry{Status: 200}, time.Minute)
	m.StartSweeper(ctx, 20*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	if m.Len() != 1 {
		t.Errorf("sweeper should drop expired entries without a read, Len=%d", m.Len())
	}
}

func TestResponseCacheRouteTTL(t *testing.T) {
	rc := New(NewMemory(), 5*time.Minute)
	rc.SetRouteTTL("/api/blogs/popular", time.Second)

	if got := rc.TTLFor("/api/blogs/popular"); got != time.Second {
		t.Errorf("TTLFor override: got %v", got)
	}
	if got := rc.TTLFor("/api/blogs"); got != 5*time.Minute {
		t.Errorf("TTLFor default: got %v", got)
	}
}

func TestResponseCacheDefaultTTL(t *testing.T) {
	rc := New(NewMemory(), 0)
	if rc.ttl != DefaultTTL {
		t.Errorf("expected DefaultTTL (%v), got %v", DefaultTTL, rc.ttl)
	}
}

// testValkeyClient returns a Valkey client for integration tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, valkeyKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestValkeyBackendRoundTrip(t *testing.T) {
	v := NewValkey(testValkeyClient(t))
	ctx := context.Background()

	if _, ok := v.Get(ctx, "/api/blogs"); ok {
		t.Error("expected miss")
	}

	e := Entry{Status: 200, ContentType: "application/json", Body: []byte(`[]`)}
	v.Set(ctx, "/api/blogs", e, time.Minute)

	got, ok := v.Get(ctx, "/api/blogs")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Status != 200 || got.ContentType != "application/json" || string(got.Body) != "[]" {
		t.Errorf("entry mismatch: %+v", got)
	}
}

func TestValkeyBackendDeletePrefix(t *testing.T) {
	v := NewValkey(testValkeyClient(t))
	ctx := context.Background()

	v.Set(ctx, "/api/blogs?page=1", Entry{Status: 200}, time.Minute)
	v.Set(ctx, "/api/blogs?page=2", Entry{Status: 200}, time.Minute)
	v.Set(ctx, "/api/categories", Entry{Status: 200}, time.Minute)

	v.DeletePrefix(ctx, "/api/blogs")

	if _, ok := v.Get(ctx, "/api/blogs?page=1"); ok {
		t.Error("expected miss after prefix invalidation")
	}
	if _, ok := v.Get(ctx, "/api/categories"); !ok {
		t.Error("unrelated prefix must survive invalidation")
	}
}
