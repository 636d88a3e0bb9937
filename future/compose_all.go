package future

import (
	"sync"

	"go.uber.org/atomic"
)

// WhenAll returns a promise that completes once every antecedent in ops has
// completed. It succeeds iff every antecedent succeeded; otherwise it faults
// with an *AggregateError over every non-cancellation error encountered, or
// completes Cancelled if every failure was a cancellation. An empty ops list
// returns an already-completed future.
func WhenAll(ops ...AnyPromise) *Future[struct{}] {
	if len(ops) == 0 {
		return Completed(struct{}{})
	}

	f, p := New[struct{}](nil)

	remaining := atomic.NewInt64(int64(len(ops)))

	var (
		mu   sync.Mutex
		errs []error
	)

	for _, op := range ops {
		op := op

		op.addRawContinuation(&continuationEntry{
			invoke: func() {
				if err := op.Err(); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}

				if remaining.Dec() == 0 {
					mu.Lock()
					defer mu.Unlock()

					switch {
					case len(errs) == 0:
						p.TrySetResult(struct{}{})
					case anyFaultedOrMixed(errs):
						nonCancel := make([]error, 0, len(errs))

						for _, e := range errs {
							if e != ErrCancelled { //nolint:errorlint
								nonCancel = append(nonCancel, e)
							}
						}

						agg := &AggregateError{Primary: nonCancel[0], Rest: nonCancel[1:]}
						p.core.tryComplete(Faulted, struct{}{}, agg, true)
					default:
						p.TryCancel()
					}
				}
			},
		})
	}

	return f
}

// anyFaultedOrMixed reports whether errs contains at least one non-cancellation
// error, used to decide between Faulted and Cancelled once every antecedent of
// a WhenAll has failed.
func anyFaultedOrMixed(errs []error) bool {
	for _, e := range errs {
		if e != ErrCancelled {
			return true
		}
	}

	return false
}
