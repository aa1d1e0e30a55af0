package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

// memRedis implements SET NX and the compare-and-delete script in memory.
type memRedis struct {
	mu     sync.Mutex
	keys   map[string]string
	setErr error
}

func newMemRedis() *memRedis { return &memRedis{keys: map[string]string{}} }

func (m *memRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return redis.NewBoolResult(false, m.setErr)
	}
	if _, held := m.keys[key]; held {
		return redis.NewBoolResult(false, nil)
	}
	m.keys[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (m *memRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[keys[0]] == args[0].(string) {
		delete(m.keys, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestAcquireRelease(t *testing.T) {
	r := newMemRedis()
	l := NewTenantLock(r, time.Second, 50*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	release, err := l.Acquire(ctx, "softphone:tenant:acme")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := l.Acquire(ctx, "softphone:tenant:acme"); !errors.Is(err, softphone.ErrTenantBusy) {
		t.Fatalf("second acquire: got %v, want ErrTenantBusy", err)
	}
	if _, err := l.Acquire(ctx, "softphone:tenant:globex"); err != nil {
		t.Fatalf("other tenant: %v", err)
	}

	release(ctx)
	if _, held := r.keys["softphone:tenant:acme"]; held {
		t.Fatal("key still held after release")
	}
	if _, err := l.Acquire(ctx, "softphone:tenant:acme"); err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
}

func TestReleaseIgnoresForeignToken(t *testing.T) {
	r := newMemRedis()
	l := NewTenantLock(r, time.Second, 10*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	// TTL dolup başka bir sahip kilidi almış gibi.
	r.keys["k"] = "someone-else"
	release(ctx)
	if r.keys["k"] != "someone-else" {
		t.Fatal("release removed a lock it does not own")
	}
}

func TestAcquireWaitsForRelease(t *testing.T) {
	r := newMemRedis()
	l := NewTenantLock(r, time.Second, 2*time.Second, zerolog.Nop())
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	go func() {
		time.Sleep(150 * time.Millisecond)
		release(ctx)
	}()
	if _, err := l.Acquire(ctx, "k"); err != nil {
		t.Fatalf("waiting acquire: %v", err)
	}
}

func TestAcquirePropagatesRedisErrors(t *testing.T) {
	r := newMemRedis()
	r.setErr = errors.New("connection refused")
	l := NewTenantLock(r, time.Second, time.Second, zerolog.Nop())

	if _, err := l.Acquire(context.Background(), "k"); err == nil || errors.Is(err, softphone.ErrTenantBusy) {
		t.Fatalf("got %v", err)
	}
}
