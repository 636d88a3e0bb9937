package future

import (
	"context"
	"errors"
	"time"

	"github.com/thesis-labs/promise/utils"
)

// Future is the read-only observer handle to an asynchronous computation: it
// exposes status inspection, blocking waits, and continuation registration,
// but cannot itself decide the outcome. The corresponding Promise is the
// producer handle over the same shared state.
type Future[T any] struct {
	core *promiseCore[T]
}

// Status returns the current lifecycle status. Lock-free, constant time.
func (f *Future[T]) Status() Status {
	return f.core.st.Status()
}

// IsCompleted reports whether the promise reached any terminal status.
func (f *Future[T]) IsCompleted() bool {
	return f.core.st.isCompleted()
}

// IsCompletedSuccessfully reports whether the promise ran to completion.
func (f *Future[T]) IsCompletedSuccessfully() bool {
	return f.Status() == RanToCompletion
}

// IsFaulted reports whether the promise terminated as Faulted.
func (f *Future[T]) IsFaulted() bool {
	return f.Status() == Faulted
}

// IsCancelled reports whether the promise terminated as Cancelled.
func (f *Future[T]) IsCancelled() bool {
	return f.Status() == Cancelled
}

// ID returns this promise's lazily-assigned unique identifier, generating
// one on first use if none exists yet.
func (f *Future[T]) ID() string {
	return f.core.id()
}

// Err returns the stored error iff the promise is Faulted or Cancelled,
// else nil. When the stored error is an *AggregateError, Err returns the
// aggregate itself, not its Primary alone; use Errors() to retrieve the
// individual errors. Returns ErrDisposed if the promise has been disposed.
func (f *Future[T]) Err() error {
	if f.core.st.isDisposed() {
		return ErrDisposed
	}

	if !f.IsCompleted() {
		return nil
	}

	f.core.mu.Lock()
	defer f.core.mu.Unlock()

	return f.core.outcome.Error
}

// Errors returns every underlying error in encounter order, primary first,
// when the error is an *AggregateError; otherwise it returns a single-element
// slice wrapping Err(), or nil if the promise has no error.
func (f *Future[T]) Errors() []error {
	err := f.Err()
	if err == nil {
		return nil
	}

	var agg *AggregateError
	if errors.As(err, &agg) {
		return agg.All()
	}

	return []error{err}
}

// Result returns the stored value iff the promise ran to completion.
// Otherwise it returns the zero value and ErrResultNotAvailable, or
// ErrDisposed if the promise has been disposed.
func (f *Future[T]) Result() (T, error) {
	var zero T

	if f.core.st.isDisposed() {
		return zero, ErrDisposed
	}

	if f.Status() != RanToCompletion {
		return zero, ErrResultNotAvailable
	}

	f.core.mu.Lock()
	defer f.core.mu.Unlock()

	return f.core.outcome.Value, nil
}

// Wait blocks the calling goroutine until the promise is terminal, returning
// the primary error (nil on success). Returns ErrDisposed immediately if
// the promise has already been disposed.
func (f *Future[T]) Wait() error {
	if f.core.st.isDisposed() {
		return ErrDisposed
	}

	<-f.core.waitHandle.Get()

	return f.Err()
}

// WaitFor blocks until the promise is terminal or the timeout elapses,
// reporting which happened via the boolean. Returns (true, ErrDisposed)
// immediately if the promise has already been disposed, since disposal is
// only possible once terminal.
func (f *Future[T]) WaitFor(timeout time.Duration) (completed bool, err error) {
	if f.core.st.isDisposed() {
		return true, ErrDisposed
	}

	select {
	case <-f.core.waitHandle.Get():
		return true, f.Err()
	case <-time.After(timeout):
		return false, nil
	}
}

// WaitContext blocks until the promise is terminal or ctx is done. Returns
// ErrDisposed immediately if the promise has already been disposed.
func (f *Future[T]) WaitContext(ctx context.Context) error {
	if f.core.st.isDisposed() {
		return ErrDisposed
	}

	select {
	case <-f.core.waitHandle.Get():
		return f.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join waits for completion and returns the result, or the zero value and
// the stored error if the promise did not succeed.
func (f *Future[T]) Join() (T, error) {
	if err := f.Wait(); err != nil {
		var zero T

		return zero, err
	}

	return f.Result()
}

// JoinFor waits up to timeout for completion. If the timeout elapses first,
// it returns the zero value and ErrTimeout; otherwise it returns what Join
// would.
func (f *Future[T]) JoinFor(timeout time.Duration) (T, error) {
	completed, err := f.WaitFor(timeout)
	if !completed {
		var zero T

		return zero, ErrTimeout
	}

	if err != nil {
		var zero T

		return zero, err
	}

	return f.Result()
}

// SpinUntilCompleted busy-waits (yielding between checks) until the promise
// is terminal. Intended for short internal retry loops only.
func (f *Future[T]) SpinUntilCompleted() {
	for !f.IsCompleted() {
		spinYield()
	}
}

// Dispose releases the wait handle and marks the promise unusable for
// further waits. Valid only once the promise is terminal.
func (f *Future[T]) Dispose() error {
	if !f.core.st.tryDispose() {
		if !f.IsCompleted() {
			return ErrInvalidTransition
		}

		return ErrDisposed
	}

	return nil
}

// Cancel requests cancellation of the underlying operation through the
// onCancel hook supplied to New. It does not itself complete the promise;
// the producer is expected to observe the request and call TryCancel. It
// returns ErrNotSupported if the promise was created without a cancel hook,
// or ErrDisposed if the promise has been disposed.
func (f *Future[T]) Cancel() error {
	if f.core.st.isDisposed() {
		return ErrDisposed
	}

	if !f.core.st.tryRequestCancellation() {
		return nil
	}

	if utils.IsNilish(f.core.onCancel) {
		return ErrNotSupported
	}

	return f.core.onCancel()
}

// Progress returns the current progress value in [0,1]: 0 before Running,
// the last reported value while Running, and 1 once terminal.
func (f *Future[T]) Progress() float64 {
	switch {
	case f.IsCompleted():
		return 1

	case f.Status() == Created:
		return 0

	default:
		return f.core.progress.Load()
	}
}

// OnProgress registers fn to run, inline on the reporting goroutine, every
// time the promise's progress is updated via Promise.ReportProgress.
func (f *Future[T]) OnProgress(fn func(float64)) {
	f.core.progressSubs.Lock()
	defer f.core.progressSubs.Unlock()

	f.core.progressSubs.fns = append(f.core.progressSubs.fns, fn)
}

// addRawContinuation implements AnyPromise.
func (f *Future[T]) addRawContinuation(e *continuationEntry) bool {
	return f.core.addRawContinuation(e)
}

func (f *Future[T]) id() string { return f.core.id() }

var _ AnyPromise = (*Future[any])(nil)

// register is shared setup for every Add*/On* registration method: it
// builds a continuationEntry, wires onSkip to cancel out, and routes through
// addRawContinuation.
func (f *Future[T]) register(invoke func(), ctx *SyncContext, opts ContinuationOptions, out *Promise[T]) {
	entry := &continuationEntry{
		options: opts,
		ctx:     ctx,
		async:   opts.Has(RunContinuationsAsynchronously),
		invoke:  invoke,
	}

	if out != nil {
		entry.onSkip = func() {
			out.TryCancel() //nolint:errcheck
		}
	}

	f.core.addRawContinuation(entry)
}

// OnResult registers fn to run once the promise is terminal, receiving the
// result and primary error (exactly one of which is the zero value).
func (f *Future[T]) OnResult(fn func(T, error), opts ...ContinuationOptions) {
	f.register(func() {
		v, _ := f.Result()
		fn(v, f.Err())
	}, nil, mergeOptions(opts), nil)
}

// OnResultContext is OnResult, marshalled onto ctx instead of running inline.
func (f *Future[T]) OnResultContext(ctx *SyncContext, fn func(T, error), opts ...ContinuationOptions) {
	f.register(func() {
		v, _ := f.Result()
		fn(v, f.Err())
	}, ctx, mergeOptions(opts), nil)
}

// OnSuccess registers fn to run only if the promise ran to completion.
func (f *Future[T]) OnSuccess(fn func(T)) {
	f.register(func() {
		v, _ := f.Result()
		fn(v)
	}, nil, OnlyOnRanToCompletion, nil)
}

// OnError registers fn to run if the promise faulted or was cancelled.
func (f *Future[T]) OnError(fn func(error)) {
	f.register(func() {
		fn(f.Err())
	}, nil, NotOnRanToCompletion, nil)
}

// AddCompletion registers fn to run once the promise is terminal, regardless
// of outcome, receiving the Future itself (mirroring the antecedent-arg shape
// used by ContinueWith and the host task bridge).
func (f *Future[T]) AddCompletion(fn func(*Future[T]), opts ...ContinuationOptions) {
	f.register(func() { fn(f) }, nil, mergeOptions(opts), nil)
}

// AddCompletionContext is AddCompletion, marshalled onto ctx.
func (f *Future[T]) AddCompletionContext(ctx *SyncContext, fn func(*Future[T]), opts ...ContinuationOptions) {
	f.register(func() { fn(f) }, ctx, mergeOptions(opts), nil)
}

func mergeOptions(opts []ContinuationOptions) ContinuationOptions {
	var out ContinuationOptions
	for _, o := range opts {
		out |= o
	}

	return out
}

// ToChannel returns a channel that receives exactly once, when the promise
// completes, then closes. It is the idiomatic Go stand-in for the spec's
// awaiter interface.
func (f *Future[T]) ToChannel() <-chan *Future[T] {
	return f.ToChannelContext(context.Background())
}

// ToChannelContext is ToChannel, but the channel also closes (without a
// value) if ctx is done before the promise completes.
func (f *Future[T]) ToChannelContext(ctx context.Context) <-chan *Future[T] {
	out := make(chan *Future[T], 1)

	go func() {
		defer close(out)

		if err := f.WaitContext(ctx); err != nil {
			return
		}

		out <- f
	}()

	return out
}
