package future

import "errors"

// ErrCancelled is the primary error carried by every promise that terminates
// as Cancelled.
var ErrCancelled = errors.New("promise cancelled")

// ErrInvalidTransition is raised by the strict Set* producer methods when the
// underlying Try* call fails; the Try* counterparts never return this error,
// they return false instead.
var ErrInvalidTransition = errors.New("invalid promise state transition")

// ErrResultNotAvailable is returned by Result() when the promise has not yet
// completed successfully.
var ErrResultNotAvailable = errors.New("result not available")

// ErrDisposed is returned by Err, Result, Wait, WaitFor, WaitContext, Cancel,
// RequestCancellation and a repeated Dispose once the promise has been
// disposed. The producer methods do not return it: the Try* methods return
// false and the strict Set* methods return ErrInvalidTransition.
var ErrDisposed = errors.New("promise disposed")

// ErrTimeout is returned by JoinFor on timeout (WaitFor returns false
// instead, without an error).
var ErrTimeout = errors.New("promise wait timed out")

// ErrNotSupported is returned by Cancel() on promises that do not override
// the cancellation hook.
var ErrNotSupported = errors.New("cancellation not supported")

// ErrEmptyList is the value WhenAny panics with when given no operands, and
// is returned by SetExceptions for an empty error list (TrySetExceptions
// returns false instead).
var ErrEmptyList = errors.New("empty promise list")

// AggregateError is the {primary, rest} fault representation produced by
// composers (chiefly WhenAll) that may accumulate more than one underlying
// error. Err() returns the aggregate itself, not Primary alone: its Error()
// text is Primary's (marked when Rest is non-empty) and errors.Is/errors.As
// match Primary and every entry of Rest. Errors() lists them individually,
// primary first.
type AggregateError struct {
	Primary error
	Rest    []error
}

func (a *AggregateError) Error() string {
	if len(a.Rest) == 0 {
		return a.Primary.Error()
	}

	return a.Primary.Error() + " (and other errors)"
}

func (a *AggregateError) Unwrap() []error {
	all := make([]error, 0, len(a.Rest)+1)
	all = append(all, a.Primary)
	all = append(all, a.Rest...)

	return all
}

// All returns every underlying error in encounter order, primary first.
func (a *AggregateError) All() []error {
	return a.Unwrap()
}
