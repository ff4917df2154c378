package lock

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

type memoryLease struct {
	token     string
	expiresAt time.Time
}

// MemoryManager implements Manager with an in-process keyed mutex table.
// Suitable for single-instance deployments and tests; semantics mirror the
// Redis manager, including TTL expiry of abandoned leases.
type MemoryManager struct {
	mu         sync.Mutex
	leases     map[string]memoryLease
	retryCount int
	retryDelay time.Duration
	seq        int64
}

func NewMemoryManager(retryCount int, retryDelay time.Duration) *MemoryManager {
	return &MemoryManager{
		leases:     make(map[string]memoryLease),
		retryCount: retryCount,
		retryDelay: retryDelay,
	}
}

func (m *MemoryManager) WithLock(ctx context.Context, keys []string, ttl time.Duration, fn func(ctx context.Context) error) error {
	token, acquired, err := m.acquire(ctx, keys, ttl)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrNotAcquired
	}

	defer m.release(keys, token)

	return fn(ctx)
}

func (m *MemoryManager) acquire(ctx context.Context, keys []string, ttl time.Duration) (string, bool, error) {
	for attempt := 0; attempt <= m.retryCount; attempt++ {
		if attempt > 0 {
			delay := m.retryDelay + time.Duration(rand.Int63n(int64(m.retryDelay)+1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", false, ctx.Err()
			}
		}

		if token, ok := m.tryAcquire(keys, ttl); ok {
			return token, true, nil
		}
	}

	return "", false, nil
}

// tryAcquire takes all keys or none under a single table lock.
func (m *MemoryManager) tryAcquire(keys []string, ttl time.Duration) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, key := range keys {
		lease, held := m.leases[key]
		if held && lease.expiresAt.After(now) {
			return "", false
		}
	}

	m.seq++
	token := strconv.FormatInt(m.seq, 10)
	for _, key := range keys {
		m.leases[key] = memoryLease{token: token, expiresAt: now.Add(ttl)}
	}
	return token, true
}

func (m *MemoryManager) release(keys []string, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		if lease, held := m.leases[key]; held && lease.token == token {
			delete(m.leases, key)
		}
	}
}
