package core

// preview_limiter.go bounds concurrent preview parses.
//
// Previews parse caller-supplied sheets of up to several megabytes entirely
// in memory. The limiter is a semaphore: when every slot is taken, callers
// wait up to maxWait before failing with ErrTooManyPreviews.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyPreviews is returned when all preview slots stay occupied for
// the whole wait period.
var ErrTooManyPreviews = errors.New("too many concurrent previews")

// DefaultMaxConcurrentPreviews is the default limit for parallel previews.
const DefaultMaxConcurrentPreviews = 4

// DefaultPreviewWait is how long to wait for a slot before rejecting.
const DefaultPreviewWait = 5 * time.Second

// Limiter is a counting semaphore with a bounded wait.
type Limiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewLimiter allows at most maxConcurrent holders. Non-positive arguments
// fall back to the preview defaults.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentPreviews
	}
	if maxWait <= 0 {
		maxWait = DefaultPreviewWait
	}

	return &Limiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot, waiting up to maxWait. The caller must Release.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-timer.C:
		return ErrTooManyPreviews

	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of held slots.
func (l *Limiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Available returns the number of free slots.
func (l *Limiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no slot is held or ctx is done. Used during
// graceful shutdown.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
