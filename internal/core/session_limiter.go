package core

// session_limiter.go caps how many wizard sessions are held in memory.
//
// Each live session occupies one slot of a semaphore. Creating or resuming a
// session waits up to maxWait for a slot before failing with
// ErrTooManySessions; evicting or deleting a session frees its slot.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManySessions is returned when every session slot is taken and the
// wait timeout expires.
var ErrTooManySessions = errors.New("too many active sessions, please try again later")

// DefaultMaxActiveSessions is the default number of live sessions.
const DefaultMaxActiveSessions = 100

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 5 * time.Second

// SessionLimiter bounds the number of live sessions using a semaphore.
type SessionLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewSessionLimiter creates a limiter allowing at most maxActive sessions.
func NewSessionLimiter(maxActive int, maxWait time.Duration) *SessionLimiter {
	if maxActive <= 0 {
		maxActive = DefaultMaxActiveSessions
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &SessionLimiter{
		semaphore: make(chan struct{}, maxActive),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. The caller must Release
// the slot when the session leaves memory.
func (l *SessionLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManySessions
	}
}

// TryAcquire takes a slot without blocking.
func (l *SessionLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *SessionLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of slots in use.
func (l *SessionLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

func (l *SessionLimiter) MaxActive() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *SessionLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// SessionLimiterStatus is a point-in-time view of the limiter.
type SessionLimiterStatus struct {
	Active    int `json:"active"`
	Available int `json:"available"`
	MaxActive int `json:"max_active"`
}

// Status returns the current limiter state for the health endpoint.
func (l *SessionLimiter) Status() SessionLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return SessionLimiterStatus{
		Active:    active,
		Available: cap(l.semaphore) - len(l.semaphore),
		MaxActive: cap(l.semaphore),
	}
}
