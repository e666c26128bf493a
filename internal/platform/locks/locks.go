// Package locks serializes write operations per user.
package locks

import (
	"context"
	"errors"
	"sync"
)

// ErrUserBusy is returned when another write for the same user holds the lock.
var ErrUserBusy = errors.New("another update for this user is in progress")

// UserLocker grants at most one holder per user id. TryLock never waits; it
// returns ErrUserBusy when the lock is held.
type UserLocker interface {
	TryLock(ctx context.Context, userID string) (unlock func(), err error)
}

type memoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker returns an in-process keyed mutex.
func NewMemoryLocker() UserLocker {
	return &memoryLocker{held: map[string]struct{}{}}
}

func (l *memoryLocker) TryLock(_ context.Context, userID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[userID]; busy {
		return nil, ErrUserBusy
	}
	l.held[userID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, userID)
			l.mu.Unlock()
		})
	}, nil
}
