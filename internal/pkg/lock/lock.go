// Package lock serializes roster writers, across replicas when Redis is
// configured and within the process otherwise.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrNotAcquired = errors.New("lock not acquired before deadline")

// Unlock releases a held lock.
type Unlock func(ctx context.Context) error

type Locker interface {
	// Lock blocks until key is held or ctx is done. ttl bounds how long a
	// crashed holder can keep the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}
