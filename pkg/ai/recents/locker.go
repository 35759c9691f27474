package recents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KeyLocker serializes appends for one (user, tool) key across instances.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

var ErrLockTimeout = errors.New("timed out waiting for key lock")

func lockKey(userId uuid.UUID, tool entity.AiTool) string {
	return fmt.Sprintf("ai_recents:lock:%s:%s", userId, tool)
}

type NopLocker struct{}

func (NopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb       *redis.Client
	ttl       time.Duration
	wait      time.Duration
	retryTick time.Duration
}

// NewRedisLocker holds each lock for at most ttl and waits up to wait to acquire it.
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if wait <= 0 {
		wait = 2 * time.Second
	}
	return &RedisLocker{
		rdb:       rdb,
		ttl:       ttl,
		wait:      wait,
		retryTick: 25 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			return func() {
				// The caller's context may already be done; release on a fresh one.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				releaseScript.Run(releaseCtx, l.rdb, []string{key}, token)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryTick):
		}
	}
}
