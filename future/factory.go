package future

// Completed returns an already-RanToCompletion future carrying v. Used by
// composers (empty WhenAll, synchronous shortcuts) so a caller never needs
// to special-case "already done" against "will complete later".
func Completed[T any](v T) *Future[T] {
	f, p := New[T](nil)
	p.TrySetResult(v)
	f.core.st.markDoNotDispose()

	return f
}

// Cancelled returns an already-Cancelled future of type struct{}, for callers
// that only care about signalling cancellation, not carrying a value.
func Cancelled() *Future[struct{}] {
	return CancelledTyped[struct{}]()
}

// CancelledTyped returns an already-Cancelled future of type T.
func CancelledTyped[T any]() *Future[T] {
	f, p := New[T](nil)
	p.TryCancel()

	return f
}

// FromError returns an already-Faulted future of type struct{} carrying err.
func FromError(err error) *Future[struct{}] {
	return FromErrorTyped[struct{}](err)
}

// FromErrorTyped returns an already-Faulted future of type T carrying err.
func FromErrorTyped[T any](err error) *Future[T] {
	f, p := New[T](nil)
	p.TrySetException(err)

	return f
}

// FromResult is an alias for Completed, matching the spec's external
// interface naming (§6) alongside the more Go-idiomatic Completed.
func FromResult[T any](v T) *Future[T] {
	return Completed(v)
}
