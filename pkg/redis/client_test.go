package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/ordermanagement-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatalf("expected allowed on first request")
	}
	if count != 1 {
		t.Fatalf("expected counter 1 got %d", count)
	}
	if len(mock.expireCalls) != 1 || mock.expireCalls[0].ttl != time.Second {
		t.Fatalf("expected window expiry on first increment, got %v", mock.expireCalls)
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if got := mock.ttl["ordermanagementapi:rate_limit:test-scope"]; got != time.Second {
		t.Fatalf("window ttl should stay at the first expiry, got %v", got)
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestSetExists(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.RevokedTokenKey("abc")
	exists, err := client.Exists(ctx, key)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatalf("expected key to be absent")
	}

	if err := client.Set(ctx, key, "1", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if exists, err = client.Exists(ctx, key); err != nil || !exists {
		t.Fatalf("expected key present, exists=%v err=%v", exists, err)
	}
	if mock.data[key] != "1" || mock.ttl[key] != time.Minute {
		t.Fatalf("unexpected stored value %q ttl %v", mock.data[key], mock.ttl[key])
	}
}

func TestFixedWindowAllowSurfacesExpireErrors(t *testing.T) {
	mock := newMockCmdable()
	mock.expireErr = fmt.Errorf("readonly replica")
	client := &Client{store: mock}

	if _, _, err := client.FixedWindowAllow(context.Background(), "scope", 5, time.Minute); err == nil {
		t.Fatal("expected expire failure to be returned")
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if _, _, err := client.FixedWindowAllow(context.Background(), "k", 1, time.Second); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.Exists(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close should be a no-op, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("scope"); got != "ordermanagementapi:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.RevokedTokenKey("jti-1"); got != "ordermanagementapi:jti-1" {
		t.Fatalf("unexpected revoked key %s", got)
	}

	custom := &Client{namespace: "oms-test"}
	if got := custom.RevokedTokenKey("jti-1"); got != "oms-test:jti-1" {
		t.Fatalf("unexpected namespaced key %s", got)
	}
	if got := custom.RateLimitKey(""); got != "oms-test:rate_limit" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://localhost:6379/2",
		PoolSize:    7,
		DialTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 {
		t.Fatalf("unexpected parsed options addr=%s db=%d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 7 || opts.DialTimeout != 3*time.Second {
		t.Fatalf("expected config fallbacks applied, got pool=%d dial=%v", opts.PoolSize, opts.DialTimeout)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	ttl         map[string]time.Duration
	expireCalls []expireCall
	expireErr   error
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
		ttl:  make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	if expiration > 0 {
		m.ttl[key] = expiration
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

// ExpireNX only sets a ttl on keys that have none, like the server does.
func (m *mockCmdable) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if m.expireErr != nil {
		return redis.NewBoolResult(false, m.expireErr)
	}
	if _, ok := m.ttl[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.ttl[key] = expiration
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}
