package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLockTimeout = errors.New("lock not acquired in time")

// OrderLocker serializes saves of the same order across requests. The redis
// client satisfies it for multi-instance deployments.
type OrderLocker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), err error)
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// localLocker is an in-process keyed mutex.
type localLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewLocalLocker() OrderLocker {
	return &localLocker{locks: make(map[string]*lockEntry)}
}

func (l *localLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[name]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		l.locks[name] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return l.releaser(name, entry), nil
	default:
	}

	timer := time.NewTimer(ttl)
	defer timer.Stop()

	select {
	case entry.sem <- struct{}{}:
		return l.releaser(name, entry), nil
	case <-timer.C:
		l.drop(name, entry)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		l.drop(name, entry)
		return nil, ctx.Err()
	}
}

func (l *localLocker) releaser(name string, entry *lockEntry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.sem
			l.drop(name, entry)
		})
	}
}

func (l *localLocker) drop(name string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, name)
	}
}
