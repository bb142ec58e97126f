// Package keylock serializes work per key with a bounded wait.
package keylock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned when a lock could not be acquired within the wait
// bound.
var ErrTimeout = errors.New("keylock: timed out waiting for lock")

// Locker grants exclusive access to a key. Acquire blocks for at most the
// locker's wait bound (or until ctx is done) and returns a release func that
// must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type entry struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex is an in-process Locker. Each key gets its own semaphore, created
// on first use and dropped when nobody holds or waits for it.
type KeyedMutex struct {
	wait time.Duration

	mu    sync.Mutex
	locks map[string]*entry
}

func NewKeyedMutex(wait time.Duration) *KeyedMutex {
	return &KeyedMutex{
		wait:  wait,
		locks: make(map[string]*entry),
	}
}

func (m *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	e := m.ref(key)

	ctx, cancel := context.WithTimeout(ctx, m.wait)
	defer cancel()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		m.unref(key)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			m.unref(key)
		})
	}, nil
}

func (m *KeyedMutex) ref(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	return e
}

func (m *KeyedMutex) unref(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
}

// size is the number of keys currently tracked.
func (m *KeyedMutex) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
