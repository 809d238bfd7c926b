package locker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
)

var ErrLocked = errors.New("resource locked")

// Redsync hands out redis-backed mutexes shared by every process on the same redis.
type Redsync struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

func NewRedsync(rs *redsync.Redsync, expiry time.Duration) *Redsync {
	return &Redsync{rs, expiry}
}

func (l *Redsync) Obtain(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(key, redsync.WithExpiry(l.expiry))
	if err := mutex.TryLock(); err != nil {
		return nil, ErrLocked
	}

	return func() {
		// nolint:errcheck
		mutex.Unlock()
	}, nil
}

// Local is the single-process fallback when no redis is configured.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocal() *Local {
	return &Local{held: map[string]struct{}{}}
}

func (l *Local) Obtain(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ErrLocked
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
