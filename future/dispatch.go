package future

import (
	"context"
	"runtime/debug"

	"github.com/thesis-labs/promise/bgworker"
	"github.com/thesis-labs/promise/logger"
	"github.com/thesis-labs/promise/utils"
)

// recoverContinuationPanic converts a recovered panic value into an error,
// reusing the same annotation utils.GetPanicRecoveryError applies to panics
// recovered from Go/GoContext.
func recoverContinuationPanic(r any) error {
	return utils.GetPanicRecoveryError(r, debug.Stack())
}

// dispatchContinuation routes e according to the decision table in §4.4:
// it checks e.options against status first (skipping and invoking onSkip if
// excluded), then picks inline / SyncContext / shared pool based on e.async
// and e.ctx.
func dispatchContinuation(status Status, e *continuationEntry) {
	if e.options.excludes(status) {
		if e.onSkip != nil {
			e.onSkip()
		}

		return
	}

	switch {
	case e.ctx != nil && e.ctx.onOwnGoroutine():
		runContinuation(e.invoke)
	case e.ctx != nil:
		e.ctx.Post(func() { runContinuation(e.invoke) })
	case e.async:
		if err := bgworker.Go(func() { runContinuation(e.invoke) }); err != nil {
			logger.Error(context.Background(), "failed to schedule continuation on dispatch pool",
				"error", logger.AnnotateError(err))
			runContinuation(e.invoke)
		}
	default:
		runContinuation(e.invoke)
	}
}

// runContinuation executes fn, recovering and logging any panic instead of
// letting it escape onto whatever goroutine happened to be draining the
// continuation slot (which may be a caller's own goroutine with no
// expectation of catching one).
func runContinuation(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := recoverContinuationPanic(r)
			logger.Error(context.Background(), "continuation panicked",
				"error", logger.AnnotateError(err), "function", utils.GetFunctionName(fn))
		}
	}()

	fn()
}
