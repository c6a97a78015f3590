// Package singleflight provides a single-slot execution guard for background
// jobs that must never run more than one instance at a time.
package singleflight

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when a guarded job is already running.
var ErrBusy = errors.New("job already running")

// Guard is a single-slot semaphore. Acquire it before the job starts and
// release it in a deferred path so a failed job can never leave it held.
type Guard struct {
	sem *semaphore.Weighted
}

// NewGuard constructs an unheld Guard.
func NewGuard() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

// TryAcquire attempts to take the slot without blocking.
func (g *Guard) TryAcquire() bool {
	return g.sem.TryAcquire(1)
}

// Release frees the slot.
func (g *Guard) Release() {
	g.sem.Release(1)
}

// Do runs fn while holding the slot, or returns ErrBusy if another run is in
// flight. The slot is released even when fn returns an error.
func (g *Guard) Do(ctx context.Context, fn func(context.Context) error) error {
	if !g.TryAcquire() {
		return ErrBusy
	}
	defer g.Release()
	return fn(ctx)
}
