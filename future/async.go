package future

import (
	"context"
	"runtime/debug"

	"github.com/thesis-labs/promise/logger"
	"github.com/thesis-labs/promise/utils"
)

// Go runs fn on a new goroutine and returns a future for its result. Panics
// inside fn are recovered and reported as the future's error, the same way
// runContinuation recovers a continuation's panic.
func Go[T any](fn func() (T, error)) *Future[T] {
	f, p := New[T](nil)

	p.TrySetScheduled() //nolint:errcheck
	p.TrySetRunning()   //nolint:errcheck

	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := utils.GetPanicRecoveryError(r, debug.Stack())
				p.TrySetException(err)
			}
		}()

		v, err := fn()
		if err != nil {
			p.TrySetException(err)

			return
		}

		p.TrySetResult(v)
	}()

	return f
}

// GoContext is Go, but fn receives a context derived from ctx, and Cancel on
// the returned future cancels that context through the promise's onCancel
// hook. If the derived context is already done when the goroutine starts, fn
// is not called and the promise completes as Cancelled; otherwise the promise
// takes whatever fn returns, so an fn that returns ctx.Err() faults it.
func GoContext[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	cctx, cancel := context.WithCancel(ctx)

	f, p := New[T](func() error {
		cancel()

		return nil
	})

	p.TrySetScheduled() //nolint:errcheck
	p.TrySetRunning()   //nolint:errcheck

	go func() {
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				err := utils.GetPanicRecoveryError(r, debug.Stack())
				p.TrySetException(err)
			}
		}()

		if !utils.IsContextAlive(cctx) {
			p.TryCancel() //nolint:errcheck

			return
		}

		v, err := fn(cctx)
		if err != nil {
			p.TrySetException(err)

			return
		}

		p.TrySetResult(v)
	}()

	return f
}

// Async runs f in the background and logs (rather than returns) any error
// or panic it produces. Use this for fire-and-forget work where nothing
// awaits the outcome.
func Async(f func()) {
	fut := Go[struct{}](func() (struct{}, error) {
		f()

		return struct{}{}, nil
	})

	fut.OnError(func(err error) {
		logger.Error(context.Background(), "future.Async", "error", logger.AnnotateError(err))
	})
}

// AsyncWithError is Async for functions that can fail; the error is logged
// rather than returned, matching fire-and-forget semantics.
func AsyncWithError(f func() error) {
	fut := Go[struct{}](func() (struct{}, error) {
		return struct{}{}, f()
	})

	fut.OnError(func(err error) {
		logger.Error(context.Background(), "future.AsyncWithError", "error", logger.AnnotateError(err))
	})
}

// AsyncContext is Async, with ctx forwarded to f and used for the error log.
func AsyncContext(ctx context.Context, f func(ctx context.Context)) {
	fut := GoContext[struct{}](ctx, func(ctx context.Context) (struct{}, error) {
		f(ctx)

		return struct{}{}, nil
	})

	fut.OnError(func(err error) {
		logger.Error(ctx, "future.AsyncContext", "error", logger.AnnotateError(err))
	})
}

// AsyncContextWithError combines AsyncContext and AsyncWithError.
func AsyncContextWithError(ctx context.Context, f func(ctx context.Context) error) {
	fut := GoContext[struct{}](ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f(ctx)
	})

	fut.OnError(func(err error) {
		logger.Error(ctx, "future.AsyncContextWithError", "error", logger.AnnotateError(err))
	})
}
