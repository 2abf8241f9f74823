// Package lock serializes read-modify-write mutations on a single record.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be taken before the wait budget ran out.
var ErrNotAcquired = errors.New("lock not acquired")

// Unlock releases a held lock.
type Unlock func(ctx context.Context) error

// Locker hands out exclusive per-key locks.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// TeamKey names the lock guarding a team roster.
func TeamKey(managerID string) string {
	return "lock:team:" + managerID
}
