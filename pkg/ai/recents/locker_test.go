package recents

import (
	"context"
	"testing"
	"time"

	"gymflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockKey(t *testing.T) {
	user := uuid.MustParse("0f8e2d4c-1b3a-4c5d-8e9f-a0b1c2d3e4f5")
	assert.Equal(t, "ai_recents:lock:0f8e2d4c-1b3a-4c5d-8e9f-a0b1c2d3e4f5:quiz", lockKey(user, entity.AiToolQuiz))
}

func TestNopLocker(t *testing.T) {
	unlock, err := NopLocker{}.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.NotPanics(t, unlock)
}

func TestRedisLocker_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	_, err := NewRedisLocker(rdb, time.Second, 200*time.Millisecond).Lock(context.Background(), "k")
	assert.Error(t, err)
}
