package future

import "github.com/thesis-labs/promise/utils"

// Promise is the producer handle to an asynchronous computation: the only
// side that may move the shared state forward. The corresponding Future is
// the read-only observer handle over the same promiseCore.
type Promise[T any] struct {
	core *promiseCore[T]
}

var _ QueueItem = (*Promise[any])(nil)

// Future returns the observer handle sharing this promise's state.
func (p *Promise[T]) Future() *Future[T] {
	return &Future[T]{core: p.core}
}

// ID returns this promise's lazily-assigned unique identifier.
func (p *Promise[T]) ID() string {
	return p.core.id()
}

// Status returns the current lifecycle status.
func (p *Promise[T]) Status() Status {
	return p.core.st.Status()
}

// TrySetScheduled advances Created to Scheduled. Returns false if the
// promise is already past Created, already terminal, or disposed.
func (p *Promise[T]) TrySetScheduled() bool {
	return p.core.st.trySetStatus(Scheduled)
}

// SetScheduled is the strict counterpart of TrySetScheduled.
func (p *Promise[T]) SetScheduled() error {
	if !p.TrySetScheduled() {
		return ErrInvalidTransition
	}

	return nil
}

// TrySetRunning advances Scheduled (or Created) to Running. Returns false
// if the promise is already terminal or disposed.
func (p *Promise[T]) TrySetRunning() bool {
	return p.core.st.trySetStatus(Running)
}

// SetRunning is the strict counterpart of TrySetRunning.
func (p *Promise[T]) SetRunning() error {
	if !p.TrySetRunning() {
		return ErrInvalidTransition
	}

	return nil
}

// TrySetResult completes the promise successfully with result, running any
// registered continuations per the dispatch rules. Returns false if the
// promise was already terminal or disposed.
func (p *Promise[T]) TrySetResult(result T) bool {
	return p.core.tryComplete(RanToCompletion, result, nil, true)
}

// SetResult is the strict counterpart of TrySetResult.
func (p *Promise[T]) SetResult(result T) error {
	if !p.TrySetResult(result) {
		return ErrInvalidTransition
	}

	return nil
}

// TrySetException completes the promise with err as the primary (and only)
// error. Per the completion error mapping, an err that is ErrCancelled
// completes the promise as Cancelled rather than Faulted. Returns false if
// the promise was already terminal or disposed.
func (p *Promise[T]) TrySetException(err error) bool {
	var zero T

	return p.core.tryComplete(terminalStatusFor(err), zero, err, true)
}

// terminalStatusFor classifies err per the completion error mapping in §4.3:
// ErrCancelled (exactly, not merely errors.Is) always yields Cancelled,
// everything else yields Faulted.
func terminalStatusFor(err error) Status {
	if err == ErrCancelled { //nolint:errorlint
		return Cancelled
	}

	return Faulted
}

// SetException is the strict counterpart of TrySetException.
func (p *Promise[T]) SetException(err error) error {
	if !p.TrySetException(err) {
		return ErrInvalidTransition
	}

	return nil
}

// TrySetExceptions completes the promise with an *AggregateError built from
// errs. Per the completion error mapping, if any entry is ErrCancelled it is
// promoted to the primary error and the promise completes as Cancelled;
// otherwise the first entry is primary and the promise completes as Faulted.
// errs must be non-empty.
func (p *Promise[T]) TrySetExceptions(errs []error) bool {
	if len(errs) == 0 {
		return false
	}

	primary := 0

	for i, e := range errs {
		if e == ErrCancelled { //nolint:errorlint
			primary = i

			break
		}
	}

	rest := make([]error, 0, len(errs)-1)

	for i, e := range errs {
		if i != primary {
			rest = append(rest, e)
		}
	}

	agg := &AggregateError{Primary: errs[primary], Rest: rest}

	var zero T

	return p.core.tryComplete(terminalStatusFor(errs[primary]), zero, agg, true)
}

// SetExceptions is the strict counterpart of TrySetExceptions, distinguishing
// an empty errs (ErrEmptyList) from losing the completion race
// (ErrInvalidTransition).
func (p *Promise[T]) SetExceptions(errs []error) error {
	if len(errs) == 0 {
		return ErrEmptyList
	}

	if !p.TrySetExceptions(errs) {
		return ErrInvalidTransition
	}

	return nil
}

// TryCancel completes the promise as Cancelled with ErrCancelled as the
// primary error. Returns false if the promise was already terminal or disposed.
func (p *Promise[T]) TryCancel() bool {
	var zero T

	return p.core.tryComplete(Cancelled, zero, ErrCancelled, true)
}

// SetCancelled is the strict counterpart of TryCancel.
func (p *Promise[T]) SetCancelled() error {
	if !p.TryCancel() {
		return ErrInvalidTransition
	}

	return nil
}

// TrySetCanceled is provided alongside TryCancel for callers porting code
// that expects the .NET-style spelling; both do exactly the same thing.
func (p *Promise[T]) TrySetCanceled() bool {
	return p.TryCancel()
}

// RequestCancellation flags cooperative cancellation without itself
// completing the promise: it invokes the onCancel hook supplied to New and
// returns its error, or returns ErrNotSupported if there is no hook. Callers of long-running work should poll
// IsCancellationRequested and call TryCancel themselves once they observe it.
func (p *Promise[T]) RequestCancellation() error {
	if p.core.st.isDisposed() {
		return ErrDisposed
	}

	if !p.core.st.tryRequestCancellation() {
		return nil
	}

	if utils.IsNilish(p.core.onCancel) {
		return ErrNotSupported
	}

	return p.core.onCancel()
}

// IsCancellationRequested reports whether RequestCancellation (or the
// Future's Cancel) has been called, regardless of whether the promise has
// actually completed as Cancelled yet.
func (p *Promise[T]) IsCancellationRequested() bool {
	return p.core.st.isCancellationRequested()
}

// OnCompletion registers fn to run once the promise is terminal, regardless
// of outcome, ignoring whatever result or error it completed with. Used by
// PromiseQueue to learn when the head of the queue has finished without
// needing to know its result type.
func (p *Promise[T]) OnCompletion(fn func()) {
	p.core.addRawContinuation(&continuationEntry{invoke: fn})
}

// ReportProgress updates the promise's progress value, clamping to [0,1],
// and synchronously notifies every subscriber registered via the Future's
// OnProgress. A no-op once the promise is terminal.
func (p *Promise[T]) ReportProgress(value float64) {
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}

	p.core.reportProgress(value)
}

// SetRunContinuationsAsynchronously forces every future continuation
// registered without an explicit RunContinuationsAsynchronously option to
// still dispatch off the completing goroutine. Mirrors the teacher's general
// preference for explicit async opt-in while allowing a producer to harden a
// promise used from latency-sensitive completion paths.
func (p *Promise[T]) SetRunContinuationsAsynchronously(async bool) {
	p.core.st.setRunContinuationsAsynchronously(async)
}
