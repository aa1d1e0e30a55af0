// sentiric-softphone-service/internal/lock/tenant_lock.go
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

const (
	DefaultTTL  = 30 * time.Second
	DefaultWait = 10 * time.Second
	pollEvery   = 100 * time.Millisecond
)

// Sadece token sahibi kilidi bırakabilir.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// Client is the subset of *redis.Client the lock needs.
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// TenantLock, aynı tenant için organizasyon çözümle-oluştur adımlarını servis
// örnekleri arasında sıraya sokar.
type TenantLock struct {
	redis Client
	ttl   time.Duration
	wait  time.Duration
	log   zerolog.Logger
}

func NewTenantLock(client Client, ttl, wait time.Duration, log zerolog.Logger) *TenantLock {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if wait <= 0 {
		wait = DefaultWait
	}
	return &TenantLock{redis: client, ttl: ttl, wait: wait, log: log}
}

// Acquire blocks until the key is held or the wait expires. Expiry yields
// softphone.ErrTenantBusy.
func (l *TenantLock) Acquire(ctx context.Context, key string) (func(context.Context), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			l.log.Error().Err(err).Str("key", key).Msg("Redis kilit hatası")
			return nil, err
		}
		if ok {
			l.log.Debug().Str("key", key).Msg("🔒 Tenant kilidi alındı")
			return l.releaser(key, token), nil
		}
		if time.Now().After(deadline) {
			return nil, softphone.ErrTenantBusy
		}

		timer := time.NewTimer(pollEvery)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *TenantLock) releaser(key, token string) func(context.Context) {
	return func(ctx context.Context) {
		if err := l.redis.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil && err != redis.Nil {
			l.log.Warn().Err(err).Str("key", key).Msg("Tenant kilidi bırakılamadı, TTL ile düşecek")
			return
		}
		l.log.Debug().Str("key", key).Msg("🔓 Tenant kilidi bırakıldı")
	}
}
