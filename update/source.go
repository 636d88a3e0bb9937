// Package update implements a single-writer multicast "tick": a cooperative
// per-frame notification used to drive progress on promises that have no
// timer or goroutine of their own.
package update

import (
	"context"
	"sync"
	"time"

	"github.com/thesis-labs/promise/utils"
)

// Subscriber is notified on every Tick with the elapsed delta, and once,
// terminally, via Complete or Error.
type Subscriber interface {
	OnTick(dt time.Duration)
	OnComplete()
	OnError(err error)
}

// FuncSubscriber adapts a plain per-tick callback to Subscriber, ignoring the
// terminal notifications. Used for hosts that only care about the tick.
type FuncSubscriber func(dt time.Duration)

func (f FuncSubscriber) OnTick(dt time.Duration) { f(dt) }
func (f FuncSubscriber) OnComplete()              {}
func (f FuncSubscriber) OnError(error)            {}

// Subscription is returned by Subscribe; Unsubscribe removes the subscriber.
// Calling it more than once, or after the source completed, is a no-op.
type Subscription struct {
	source *Source
	sub    Subscriber
}

// Unsubscribe releases this subscription.
func (s *Subscription) Unsubscribe() {
	s.source.remove(s.sub)
}

// Source is a multicast tick. Subscribers are invoked synchronously, in
// registration order, on whatever goroutine calls Tick. Add/remove during a
// tick are deferred so the subscriber slice is never mutated while it's
// being ranged over.
type Source struct {
	mu          sync.Mutex
	subscribers []Subscriber
	ticking     bool
	toRemove    map[Subscriber]struct{}
	done        bool

	cancelTicker context.CancelFunc
}

// New creates an idle Source. Call Tick manually, or Start to drive it from
// a context-scoped time.Ticker instead.
func New() *Source {
	return &Source{}
}

// Subscribe registers sub for future ticks and terminal notifications.
func (s *Source) Subscribe(sub Subscriber) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return &Subscription{source: s, sub: sub}
	}

	s.subscribers = append(s.subscribers, sub)

	return &Subscription{source: s, sub: sub}
}

func (s *Source) remove(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticking {
		if s.toRemove == nil {
			s.toRemove = make(map[Subscriber]struct{})
		}

		s.toRemove[sub] = struct{}{}

		return
	}

	s.removeLocked(sub)
}

func (s *Source) removeLocked(sub Subscriber) {
	for i, cur := range s.subscribers {
		if cur == sub {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)

			return
		}
	}
}

// Tick synchronously invokes every subscriber's OnTick with dt, in
// registration order. Safe to call from Subscriber.OnTick itself (reentrant
// add/remove are deferred until Tick returns).
func (s *Source) Tick(dt time.Duration) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()

		return
	}

	s.ticking = true
	subs := append([]Subscriber{}, s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.OnTick(dt)
	}

	s.mu.Lock()
	s.ticking = false

	for sub := range s.toRemove {
		s.removeLocked(sub)
	}

	s.toRemove = nil
	s.mu.Unlock()
}

// Complete notifies every subscriber exactly once via OnComplete and
// discards the subscriber list. Subsequent Tick/Complete/Error calls are
// no-ops.
func (s *Source) Complete() {
	s.finish(func(sub Subscriber) { sub.OnComplete() })
}

// Error notifies every subscriber exactly once via OnError and discards the
// subscriber list.
func (s *Source) Error(err error) {
	s.finish(func(sub Subscriber) { sub.OnError(err) })
}

func (s *Source) finish(notify func(Subscriber)) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()

		return
	}

	s.done = true
	subs := s.subscribers
	s.subscribers = nil
	cancel := s.cancelTicker
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	for _, sub := range subs {
		notify(sub)
	}
}

// Start drives Tick automatically off utils.TickerWithContext, for hosts
// with no frame loop of their own. The ticker stops and Complete runs once
// ctx is done, since TickerWithContext closes its channel at that point.
func (s *Source) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancelTicker = cancel
	s.mu.Unlock()

	ticks := utils.TickerWithContext(ctx, interval)

	go func() {
		last := time.Now()

		for now := range ticks {
			dt := now.Sub(last)
			last = now
			s.Tick(dt)
		}

		s.Complete()
	}()
}
