package future

// WhenAny returns a future whose outcome mirrors the first of ops to
// complete; every other antecedent keeps running but its outcome is
// discarded. ops must be non-empty, else WhenAny panics with ErrEmptyList
// — callers that accept an empty slice at runtime should check
// len(ops) themselves first, matching the spec's "raises at construction"
// wording for a condition that is a programmer error, not a runtime one.
func WhenAny[T any](ops ...*Future[T]) *Future[T] {
	if len(ops) == 0 {
		panic(ErrEmptyList)
	}

	f, p := New[T](nil)

	for _, op := range ops {
		op := op

		op.addRawContinuation(&continuationEntry{
			invoke: func() {
				copyCompletionState(op, p)
			},
		})
	}

	return f
}

// copyCompletionState mirrors antecedent's terminal status, error, and
// result onto target. A no-op if target already completed (e.g. a sibling
// of a WhenAny already won the race).
func copyCompletionState[T any](antecedent *Future[T], target *Promise[T]) {
	switch antecedent.Status() {
	case RanToCompletion:
		v, _ := antecedent.Result()
		target.TrySetResult(v)
	case Cancelled:
		target.TryCancel()
	case Faulted:
		target.TrySetException(antecedent.Err())
	}
}
