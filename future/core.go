// Package future implements a lightweight, thread-safe promise/future
// primitive: a container representing the eventual completion of an
// asynchronous computation, together with continuation registration,
// dispatch, and composition (WhenAll, WhenAny, Delay, ContinueWith,
// Transform, Then/Catch/Finally).
package future

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/thesis-labs/promise/lazy"
	"github.com/thesis-labs/promise/try"
)

// promiseCore is the single shared state behind a Promise[T]/Future[T] pair.
// Promise exposes the producer surface over it; Future exposes the observer
// surface. Neither type copies this struct; both hold a pointer to it.
type promiseCore[T any] struct {
	st   *stateWord
	slot *continuationSlot

	mu         sync.Mutex
	outcome    try.Try[T]
	asyncState any

	waitHandle *lazy.Of[chan struct{}]
	uid        *lazy.Of[uuid.UUID]

	onCancel func() error

	progress     atomic.Float64
	progressSubs struct {
		sync.Mutex
		fns []func(float64)
	}
}

func newPromiseCore[T any](onCancel func() error) *promiseCore[T] {
	c := &promiseCore[T]{
		st:   newStateWord(),
		slot: &continuationSlot{},
	}

	c.waitHandle = lazy.New(func() chan struct{} {
		return make(chan struct{})
	})
	c.uid = lazy.New(func() uuid.UUID {
		return uuid.New()
	})

	c.onCancel = onCancel

	return c
}

// New creates a fresh Created promise and returns its observer handle
// (Future) and producer handle (Promise). onCancel, if non-nil, is invoked
// the first time Cancel() is called on the Future; its absence means
// cancellation is not supported (Cancel returns ErrNotSupported).
func New[T any](onCancel func() error) (*Future[T], *Promise[T]) {
	core := newPromiseCore[T](onCancel)

	return &Future[T]{core: core}, &Promise[T]{core: core}
}

// id returns the lazily-materialized identifier, generating one on first use.
func (c *promiseCore[T]) id() string {
	return c.uid.Get().String()
}

// tryComplete is the single linearization point for every terminal
// transition: reserve, install status/payload, seal the continuation slot,
// and dispatch every drained entry. Returns false if another producer call
// already won the reservation.
func (c *promiseCore[T]) tryComplete(terminal Status, result T, err error, synchronous bool) bool {
	if !c.st.tryReserveCompletion() {
		return false
	}

	c.mu.Lock()
	c.outcome = try.Try[T]{Value: result, Error: err}
	c.mu.Unlock()

	c.st.setCompletedUnconditional(terminal, synchronous)

	// Get() materializes the handle if no waiter has yet; either way it is
	// safe (and required) to close it here, since tryComplete runs at most
	// once per promise.
	close(c.waitHandle.Get())

	for _, entry := range c.slot.drain() {
		dispatchContinuation(terminal, entry)
	}

	return true
}

// reportProgress stores value and synchronously notifies every subscriber
// registered via Future.OnProgress, in registration order. Ignored once the
// promise is terminal, since Progress() pins to 1 at that point regardless.
func (c *promiseCore[T]) reportProgress(value float64) {
	if c.st.isCompleted() {
		return
	}

	c.progress.Store(value)

	c.progressSubs.Lock()
	fns := append([]func(float64){}, c.progressSubs.fns...)
	c.progressSubs.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

// addRawContinuation registers e for dispatch at completion, or dispatches it
// inline immediately if the promise is already terminal (§3.2.5/6).
func (c *promiseCore[T]) addRawContinuation(e *continuationEntry) bool {
	if c.st.runsContinuationsAsynchronously() {
		e.async = true
	}

	if c.st.isCompleted() {
		dispatchContinuation(c.st.Status(), e)

		return false
	}

	if c.slot.add(e) {
		return true
	}

	// Lost the race against completion between the isCompleted check and the
	// add: the slot sealed in between. Dispatch inline ourselves so the
	// continuation still runs exactly once.
	dispatchContinuation(c.st.Status(), e)

	return false
}
