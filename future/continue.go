package future

// ContinueWith creates an output promise that starts once antecedent
// completes: action runs regardless of antecedent's outcome (unless opts
// excludes antecedent's terminal status, per §4.4's decision table, in
// which case the output is cancelled and action never runs) and is given
// both the antecedent and the output's producer handle, so it may complete
// the output directly or chain a nested future onto it via ChainFuture.
// Panics inside action are recovered and used to fault the output.
func ContinueWith[A, B any](antecedent *Future[A], action func(*Future[A], *Promise[B]), opts ...ContinuationOptions) *Future[B] {
	out, p := New[B](nil)

	entry := &continuationEntry{
		options: mergeOptions(opts),
		async:   mergeOptions(opts).Has(RunContinuationsAsynchronously),
		invoke: func() {
			p.TrySetScheduled() //nolint:errcheck
			p.TrySetRunning()   //nolint:errcheck

			defer func() {
				if r := recover(); r != nil {
					p.TrySetException(recoverContinuationPanic(r))
				}
			}()

			action(antecedent, p)
		},
		onSkip: func() {
			p.TryCancel() //nolint:errcheck
		},
	}

	antecedent.addRawContinuation(entry)

	return out
}

// ChainFuture completes target with whatever nested eventually becomes,
// including asynchronously. Used inside a ContinueWith action that wants to
// return another in-flight operation instead of completing synchronously.
func ChainFuture[T any](nested *Future[T], target *Promise[T]) {
	nested.register(func() {
		copyCompletionState(nested, target)
	}, nil, None, nil)
}

// Transform runs fn with antecedent's result and error (exactly one of
// which is the zero value) once antecedent is terminal, and completes the
// output with whatever fn returns. Cancellation of the antecedent still
// invokes fn, unlike Then, so callers can decide how to represent it in B.
func Transform[A, B any](antecedent *Future[A], fn func(A, error) (B, error), opts ...ContinuationOptions) *Future[B] {
	return ContinueWith(antecedent, func(a *Future[A], p *Promise[B]) {
		v, _ := a.Result()

		result, ferr := fn(v, a.Err())
		if ferr != nil {
			p.TrySetException(ferr)

			return
		}

		p.TrySetResult(result)
	}, opts...)
}

// Then runs fn only if antecedent ran to completion, mapping its result to
// B. A faulted or cancelled antecedent propagates its outcome to the output
// without running fn. opts further restricts which antecedent outcomes
// start the continuation at all (see ContinueWith).
func Then[A, B any](antecedent *Future[A], fn func(A) (B, error), opts ...ContinuationOptions) *Future[B] {
	return ContinueWith(antecedent, func(a *Future[A], p *Promise[B]) {
		switch a.Status() {
		case Faulted:
			p.TrySetException(a.Err())
		case Cancelled:
			p.TryCancel()
		default:
			v, _ := a.Result()

			result, err := fn(v)
			if err != nil {
				p.TrySetException(err)

				return
			}

			p.TrySetResult(result)
		}
	}, opts...)
}

// Catch runs fn only if antecedent faulted, letting it recover by producing
// a replacement result or forwarding a different error. A successful or
// cancelled antecedent's outcome passes through unchanged.
func Catch[T any](antecedent *Future[T], fn func(error) (T, error), opts ...ContinuationOptions) *Future[T] {
	return ContinueWith(antecedent, func(a *Future[T], p *Promise[T]) {
		if a.Status() != Faulted {
			copyCompletionState(a, p)

			return
		}

		result, err := fn(a.Err())
		if err != nil {
			p.TrySetException(err)

			return
		}

		p.TrySetResult(result)
	}, opts...)
}

// Finally runs fn once antecedent is terminal, regardless of outcome, and
// forwards antecedent's outcome to the output unchanged.
func Finally[T any](antecedent *Future[T], fn func(), opts ...ContinuationOptions) *Future[T] {
	return ContinueWith(antecedent, func(a *Future[T], p *Promise[T]) {
		fn()
		copyCompletionState(a, p)
	}, opts...)
}
