package future

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/atomic"

	"github.com/thesis-labs/promise/channels"
	"github.com/thesis-labs/promise/logger"
)

// SyncContext is a single-threaded "synchronization context": a sequential
// mailbox that runs every posted closure on one dedicated goroutine, in
// post order. ContinuationDispatch posts onto a SyncContext when a
// continuation was registered with an explicit bound context, so that
// callers on cooperative single-threaded hosts (e.g. a frame-stepped game
// loop) can guarantee their continuations never run concurrently with the
// rest of their own code.
//
// Grounded on this codebase's actor-mailbox pattern: one goroutine draining
// an inbox channel, with panics recovered and logged rather than allowed to
// kill the mailbox goroutine. The inbox itself is built with channels.Create
// so callers can opt into an unbounded mailbox (negative capacity) for hosts
// that must never let Post block.
type SyncContext struct {
	send     chan<- func()
	recv     <-chan func()
	queued   func() int
	closeOne sync.Once
	done     chan struct{}

	// goroutineID is the ID of the mailbox goroutine, recorded once run
	// starts. dispatchContinuation compares the calling goroutine against it
	// to invoke inline instead of posting when a continuation is already
	// chained back onto its own mailbox goroutine (e.g. via ChainFuture or
	// ContinueWith registered with this same context), which would otherwise
	// risk blocking once the inbox buffer fills.
	goroutineID atomic.Uint64
}

// NewSyncContext starts a new mailbox goroutine. capacity follows
// channels.Create: 0 for unbuffered, >0 for a bounded buffer, <0 for an
// unbounded internally-queued mailbox.
func NewSyncContext(capacity int) *SyncContext {
	send, recv, queued := channels.Create[func()](capacity)

	c := &SyncContext{
		send:   send,
		recv:   recv,
		queued: queued,
		done:   make(chan struct{}),
	}

	go c.run()

	return c
}

// Pending returns the number of closures currently queued but not yet run.
func (c *SyncContext) Pending() int {
	return c.queued()
}

func (c *SyncContext) run() {
	defer close(c.done)

	c.goroutineID.Store(getGoroutineID())

	for fn := range c.recv {
		c.invoke(fn)
	}
}

// onOwnGoroutine reports whether the calling goroutine is this context's
// mailbox goroutine. Used to invoke a continuation inline rather than post
// it, since posting onto a channel only the caller itself can drain would
// deadlock once the buffer is full.
func (c *SyncContext) onOwnGoroutine() bool {
	id := c.goroutineID.Load()

	return id != 0 && id == getGoroutineID()
}

// getGoroutineID extracts the calling goroutine's numeric ID from its stack
// trace header ("goroutine 123 [running]: ..."). There is no supported way
// to obtain this from the runtime; parsing the trace is the same approach
// used elsewhere in this ecosystem for single-threaded-affinity checks.
func getGoroutineID() uint64 {
	var buf [64]byte

	n := runtime.Stack(buf[:], false)

	var id uint64

	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}

		id = id*10 + uint64(buf[i]-'0')
	}

	return id
}

func (c *SyncContext) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(context.Background(), "panic in synchronization context continuation", "panic", r)
		}
	}()

	fn()
}

// Post schedules fn to run on the mailbox goroutine. Post does not block the
// caller beyond the capacity of the inbox; it panics if called after Close.
func (c *SyncContext) Post(fn func()) {
	c.send <- fn
}

// Close stops accepting new work and waits for the mailbox goroutine to
// drain whatever was already posted. Idempotent.
func (c *SyncContext) Close() {
	c.closeOne.Do(func() {
		channels.CloseChannelIgnorePanic(c.send)
	})
	<-c.done
}
