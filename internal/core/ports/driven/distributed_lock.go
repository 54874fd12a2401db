package driven

import (
	"context"
	"time"
)

// DistributedLock serializes work across instances. The sync job holds a
// per-course lock for the duration of a run so the progress record has a
// single writer; the scheduler holds a global lock while enqueuing.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held by another instance.
	// The lock auto-expires after TTL.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Best-effort; safe to call even if
	// the lock is not held or has expired.
	Release(ctx context.Context, name string) error

	// Extend extends the TTL of a currently held lock. Long sync runs
	// extend their course lock between categories. Returns an error if
	// the lock is not held by this instance.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
