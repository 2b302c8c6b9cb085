// Package task runs external calls on behalf of a view and guarantees that
// none of their results are acted on after the view is gone.
package task

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scope owns the goroutines started for one game session. Closing it
// cancels their contexts, waits for them to return, and marks every result
// that arrives afterwards as stale.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu     sync.Mutex
	closed bool
}

// NewScope derives a scope from parent.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the scope closes.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Alive reports whether results should still be delivered.
func (s *Scope) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.ctx.Err() == nil
}

// Close cancels outstanding work and waits for it. It is safe to call more
// than once.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.group.Wait()
}

// Result is the outcome of one call. Stale results belong to a scope that
// has closed and must be dropped.
type Result[T any] struct {
	Value T
	Err   error
	Stale bool
}

// Do runs fn with the scope's context and blocks until it returns. It is
// meant for code that is already off the owning loop, such as a bubbletea
// command. The call joins the scope's group, so Close waits for it. After
// Close, fn still runs but sees a cancelled context.
func Do[T any](s *Scope, fn func(context.Context) (T, error)) Result[T] {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		v, err := fn(s.ctx)
		return Result[T]{Value: v, Err: err, Stale: true}
	}
	done := make(chan Result[T], 1)
	s.group.Go(func() error {
		done <- run(s, fn)
		return nil
	})
	s.mu.Unlock()
	return <-done
}

// Go runs fn on a new goroutine and passes its result to deliver, unless the
// scope closed first. deliver runs on that goroutine, so it should only hand
// the result to the owning loop (for example over a channel).
func Go[T any](s *Scope, fn func(context.Context) (T, error), deliver func(T, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.group.Go(func() error {
		r := run(s, fn)
		if !r.Stale {
			deliver(r.Value, r.Err)
		}
		return nil
	})
}

func run[T any](s *Scope, fn func(context.Context) (T, error)) Result[T] {
	v, err := fn(s.ctx)
	return Result[T]{Value: v, Err: err, Stale: !s.Alive()}
}
