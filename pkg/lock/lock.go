// Package lock provides named mutual-exclusion leases with TTL expiry.
//
// A lease covers one or more resource keys and is acquired all-or-nothing:
// either every key is free and all become held by the caller, or none are
// touched. The TTL bounds how long a crashed holder can block a resource.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when the retry budget is exhausted without
// obtaining every requested key. Callers must treat this as a transient
// condition, distinct from any domain validation failure.
var ErrNotAcquired = errors.New("lock not acquired")

// Manager acquires multi-key leases and runs fn while they are held.
type Manager interface {
	// WithLock atomically acquires all keys for at most ttl, runs fn, and
	// releases the keys regardless of fn's outcome. Returns ErrNotAcquired
	// if the keys could not be obtained within the retry budget; otherwise
	// returns fn's error.
	WithLock(ctx context.Context, keys []string, ttl time.Duration, fn func(ctx context.Context) error) error
}
