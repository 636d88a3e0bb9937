// Package queue implements a FIFO queue of promises that starts one at a
// time, driven by a single-goroutine channel actor loop in the same style
// as this codebase's object pool.
package queue

import (
	"context"
	"errors"

	"github.com/thesis-labs/promise/future"
	"github.com/thesis-labs/promise/logger"
)

// ErrAlreadyStarted is returned by Add when the item's status is already
// past Created: the queue only accepts promises it gets to schedule itself.
var ErrAlreadyStarted = errors.New("queue item already started")

// ErrQueueFull is returned by Add when MaxCount is set and the queue is
// already at capacity.
var ErrQueueFull = errors.New("queue is full")

// ErrQueueClosed is returned by every operation once Close has run.
var ErrQueueClosed = errors.New("queue is closed")

type addRequest struct {
	item     future.QueueItem
	response chan error
}

// Queue is a FIFO of promise-like items, starting at most one at a time.
// Create with New; the returned Queue owns a goroutine until Close is called.
type Queue struct {
	name     string
	maxCount int

	addCh       chan addRequest
	cancelAllCh chan chan struct{}
	suspendCh   chan chan struct{}
	resumeCh    chan chan struct{}
	headDoneCh  chan struct{}
	closeCh     chan chan struct{}

	onEmpty func()
}

// Option configures a Queue constructed via New.
type Option func(*Queue)

// WithName sets the label used for this queue's prometheus metrics.
func WithName(name string) Option {
	return func(q *Queue) { q.name = name }
}

// WithMaxCount caps the queue depth; Add returns ErrQueueFull once the
// length would exceed count. Zero (the default) means unbounded.
func WithMaxCount(count int) Option {
	return func(q *Queue) { q.maxCount = count }
}

// WithOnEmpty registers a callback invoked every time the queue transitions
// from non-empty to empty (the "empty" event in the spec).
func WithOnEmpty(fn func()) Option {
	return func(q *Queue) { q.onEmpty = fn }
}

// New creates and starts a Queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		name:        "queue",
		addCh:       make(chan addRequest),
		cancelAllCh: make(chan chan struct{}),
		suspendCh:   make(chan chan struct{}),
		resumeCh:    make(chan chan struct{}),
		headDoneCh:  make(chan struct{}, 1),
		closeCh:     make(chan chan struct{}),
	}

	for _, opt := range opts {
		opt(q)
	}

	queueAlive.WithLabelValues(q.name).Set(1)
	queueDepth.WithLabelValues(q.name).Set(0)
	queueSuspended.WithLabelValues(q.name).Set(0)

	go q.loop()

	return q
}

// Add appends item to the tail of the queue. It is rejected if item has
// already left the Created status, or if the queue is at MaxCount.
func (q *Queue) Add(item future.QueueItem) error {
	if item.Status() != future.Created {
		return ErrAlreadyStarted
	}

	resp := make(chan error, 1)
	q.addCh <- addRequest{item: item, response: resp}

	return <-resp
}

// CancelAll cancels and removes every queued item, including the head that
// is already running.
func (q *Queue) CancelAll() {
	done := make(chan struct{})
	q.cancelAllCh <- done
	<-done
}

// Suspend withholds the head of the queue from transitioning to Running
// until Resume is called.
func (q *Queue) Suspend() {
	done := make(chan struct{})
	q.suspendCh <- done
	<-done
}

// Resume re-attempts to start the head of the queue if suspended.
func (q *Queue) Resume() {
	done := make(chan struct{})
	q.resumeCh <- done
	<-done
}

// Close drains the actor goroutine. Pending items are left exactly as they
// are; callers that want them cancelled should call CancelAll first.
func (q *Queue) Close() {
	done := make(chan struct{})
	q.closeCh <- done
	<-done
}

func (q *Queue) loop() {
	var pending []future.QueueItem

	running := false
	suspended := false

	var tryStartHead func()

	tryStartHead = func() {
		if running || suspended || len(pending) == 0 {
			return
		}

		head := pending[0]

		if !head.TrySetScheduled() {
			// Lost the race (e.g. externally cancelled); drop it and retry.
			pending = pending[1:]
			queueDepth.WithLabelValues(q.name).Dec()
			tryStartHead()

			return
		}

		head.TrySetRunning() //nolint:errcheck

		running = true

		head.OnCompletion(func() {
			select {
			case q.headDoneCh <- struct{}{}:
			default:
			}
		})
	}

	notifyEmptyIfNeeded := func(wasEmpty bool) {
		if !wasEmpty && len(pending) == 0 && q.onEmpty != nil {
			q.onEmpty()
		}
	}

	for {
		select {
		case req := <-q.addCh:
			if q.maxCount > 0 && len(pending) >= q.maxCount {
				logger.Warn(context.Background(), "rejecting queue item, queue is full",
					"queue", q.name, "max_count", q.maxCount)
				req.response <- ErrQueueFull

				continue
			}

			pending = append(pending, req.item)
			queueDepth.WithLabelValues(q.name).Inc()
			req.response <- nil

			tryStartHead()

		case done := <-q.cancelAllCh:
			wasEmpty := len(pending) == 0

			for _, item := range pending {
				item.TryCancel() //nolint:errcheck
			}

			removed := len(pending)
			pending = nil
			queueDepth.WithLabelValues(q.name).Sub(float64(removed))

			notifyEmptyIfNeeded(wasEmpty)
			close(done)

		case done := <-q.suspendCh:
			suspended = true
			queueSuspended.WithLabelValues(q.name).Set(1)
			close(done)

		case done := <-q.resumeCh:
			suspended = false
			queueSuspended.WithLabelValues(q.name).Set(0)
			tryStartHead()
			close(done)

		case <-q.headDoneCh:
			running = false

			wasEmpty := len(pending) == 0
			if len(pending) > 0 {
				pending = pending[1:]
				queueDepth.WithLabelValues(q.name).Dec()
				queueCompleted.WithLabelValues(q.name).Inc()
			}

			notifyEmptyIfNeeded(wasEmpty)
			tryStartHead()

		case done := <-q.closeCh:
			queueAlive.WithLabelValues(q.name).Set(0)
			close(done)

			return
		}
	}
}
