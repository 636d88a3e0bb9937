package future

import (
	"go.uber.org/atomic"
)

// Status is the observable lifecycle stage of a Promise/Future pair.
type Status int32

const (
	// Created is the initial status of every promise.
	Created Status = iota
	// Scheduled means the producer has announced intent to run but hasn't started.
	Scheduled
	// Running means the producer is actively computing the result.
	Running
	// RanToCompletion is a terminal status: the promise completed successfully.
	RanToCompletion
	// Faulted is a terminal status: the promise completed with a non-cancellation error.
	Faulted
	// Cancelled is a terminal status: the promise completed because it was cancelled.
	Cancelled
)

// String renders the status for logging.
func (s Status) String() string {
	switch s {
	case Created:
		return "Created"
	case Scheduled:
		return "Scheduled"
	case Running:
		return "Running"
	case RanToCompletion:
		return "RanToCompletion"
	case Faulted:
		return "Faulted"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s is one of the three terminal statuses.
func (s Status) IsTerminal() bool {
	return s == RanToCompletion || s == Faulted || s == Cancelled
}

// stateWord is the atomic coordination point for a promise's lifecycle. It
// tracks the status plus the auxiliary flags described in the data model as a
// small set of named atomics rather than hand-packed bits: every transition
// that matters for correctness (completion reservation) goes through a single
// CAS, and the remaining flags are independent booleans that never race with
// that CAS because they can only be set before or after it, never during.
type stateWord struct {
	status                          atomic.Int32
	completionReserved             atomic.Bool
	completed                       atomic.Bool
	synchronous                     atomic.Bool
	cancellationRequested           atomic.Bool
	disposed                        atomic.Bool
	doNotDispose                    atomic.Bool
	runContinuationsAsynchronously  atomic.Bool
}

func newStateWord() *stateWord {
	return &stateWord{}
}

func (s *stateWord) Status() Status {
	return Status(s.status.Load())
}

// trySetStatus advances the non-terminal status to target, succeeding only if
// the promise is not yet reserved for completion, not already terminal, and
// not disposed, and target is strictly ahead of the current status.
func (s *stateWord) trySetStatus(target Status) bool {
	if s.completionReserved.Load() || s.completed.Load() || s.disposed.Load() {
		return false
	}

	for {
		current := Status(s.status.Load())
		if current.IsTerminal() || current >= target {
			return false
		}

		if s.status.CompareAndSwap(int32(current), int32(target)) {
			return true
		}
	}
}

// tryReserveCompletion establishes the single producer that is allowed to
// install the terminal status. Exactly one caller observes true; a promise
// that is already disposed (and therefore already terminal) never can,
// since tryComplete only ever runs once per promise and dispose requires
// terminal first.
func (s *stateWord) tryReserveCompletion() bool {
	if s.disposed.Load() {
		return false
	}

	return s.completionReserved.CompareAndSwap(false, true)
}

// setCompletedUnconditional installs the terminal status. Must only be called
// by the caller that won tryReserveCompletion.
func (s *stateWord) setCompletedUnconditional(terminal Status, synchronous bool) {
	s.status.Store(int32(terminal))
	s.synchronous.Store(synchronous)
	s.completed.Store(true)
}

// tryRequestCancellation sets the cancellation-requested flag at most once.
func (s *stateWord) tryRequestCancellation() bool {
	return s.cancellationRequested.CompareAndSwap(false, true)
}

func (s *stateWord) isCancellationRequested() bool {
	return s.cancellationRequested.Load()
}

func (s *stateWord) isCompleted() bool {
	return s.completed.Load()
}

func (s *stateWord) isSynchronous() bool {
	return s.synchronous.Load()
}

func (s *stateWord) tryDispose() bool {
	if !Status(s.status.Load()).IsTerminal() {
		return false
	}

	if s.doNotDispose.Load() {
		return false
	}

	return s.disposed.CompareAndSwap(false, true)
}

func (s *stateWord) isDisposed() bool {
	return s.disposed.Load()
}

func (s *stateWord) markDoNotDispose() {
	s.doNotDispose.Store(true)
}

func (s *stateWord) setRunContinuationsAsynchronously(async bool) {
	s.runContinuationsAsynchronously.Store(async)
}

func (s *stateWord) runsContinuationsAsynchronously() bool {
	return s.runContinuationsAsynchronously.Load()
}
