package lock

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"shopcart-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// acquireScript sets every key to the caller's token iff none of them
// exist. Running as a single script makes the multi-key acquisition atomic.
var acquireScript = redis.NewScript(`
for i, key in ipairs(KEYS) do
	if redis.call("EXISTS", key) == 1 then
		return 0
	end
end
for i, key in ipairs(KEYS) do
	redis.call("SET", key, ARGV[1], "PX", ARGV[2])
end
return 1
`)

// releaseScript deletes only keys still holding the caller's token, so a
// lease that expired and was re-acquired by someone else is never released
// by the original holder.
var releaseScript = redis.NewScript(`
local released = 0
for i, key in ipairs(KEYS) do
	if redis.call("GET", key) == ARGV[1] then
		redis.call("DEL", key)
		released = released + 1
	end
end
return released
`)

// RedisManager implements Manager on a single Redis instance using
// SET NX PX semantics with a per-lease fencing token.
type RedisManager struct {
	client     *redis.Client
	retryCount int
	retryDelay time.Duration
}

func NewRedisManager(client *redis.Client, retryCount int, retryDelay time.Duration) *RedisManager {
	return &RedisManager{
		client:     client,
		retryCount: retryCount,
		retryDelay: retryDelay,
	}
}

func (m *RedisManager) WithLock(ctx context.Context, keys []string, ttl time.Duration, fn func(ctx context.Context) error) error {
	if len(keys) == 0 {
		return fmt.Errorf("lock: no resource keys given")
	}

	token := uuid.NewString()

	acquired, err := m.acquire(ctx, keys, token, ttl)
	if err != nil {
		return fmt.Errorf("lock: acquire failed: %w", err)
	}
	if !acquired {
		return ErrNotAcquired
	}

	defer m.release(keys, token)

	return fn(ctx)
}

func (m *RedisManager) acquire(ctx context.Context, keys []string, token string, ttl time.Duration) (bool, error) {
	ttlMillis := ttl.Milliseconds()

	// retryCount retries after the initial attempt.
	for attempt := 0; attempt <= m.retryCount; attempt++ {
		if attempt > 0 {
			// Fixed delay plus jitter to spread out herds of contenders.
			delay := m.retryDelay + time.Duration(rand.Int63n(int64(m.retryDelay)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		ok, err := acquireScript.Run(ctx, m.client, keys, token, ttlMillis).Int()
		if err != nil {
			return false, err
		}
		if ok == 1 {
			return true, nil
		}
	}

	return false, nil
}

func (m *RedisManager) release(keys []string, token string) {
	// Release must not inherit a cancelled request context; an unreleased
	// lease would otherwise block the resource until TTL expiry.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, m.client, keys, token).Err(); err != nil {
		logger.Error("failed to release lock", err)
	}
}
