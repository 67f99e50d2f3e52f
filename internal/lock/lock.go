// Package lock serializes work per key. The attendance ledger uses it so that
// two scans of the same student for the same event never interleave.
package lock

import (
	"context"
	"errors"
)

var ErrNotAcquired = errors.New("lock not acquired")

type Locker interface {
	// WithLock runs fn while holding the lock for key. Different keys never
	// block each other.
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
