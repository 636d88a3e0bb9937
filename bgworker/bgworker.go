// Package bgworker hosts the shared goroutine pool that ContinuationDispatch
// uses to run continuations which opt out of inline and context-posted execution.
package bgworker

import (
	"log/slog"

	"github.com/alitto/pond/v2"
	"github.com/thesis-labs/promise/config"
	"github.com/thesis-labs/promise/lazy"
	"github.com/thesis-labs/promise/shutdown"
)

// cfg is the dispatch configuration used to size the pool on first use.
// Configure replaces it before the pool is materialized; calling it afterward
// has no effect on the already-running pool.
var cfg = config.Default().Dispatch //nolint:gochecknoglobals

// Configure sets the worker count used when the shared pool is first created.
// Must be called before the first Submit or Go, typically during process startup.
func Configure(dispatch config.Dispatch) {
	cfg = dispatch
}

// workerPool is the lazily-initialized, process-wide dispatch pool.
var workerPool = lazy.New(func() pond.Pool { //nolint:gochecknoglobals
	count := cfg.WorkerCount
	if count <= 0 {
		count = 10
	}

	slog.Debug("initializing dispatch worker pool", "count", count)

	pool := pond.NewPool(count)

	shutdown.BeforeShutdown(func() {
		slog.Debug("stopping dispatch worker pool")
		pool.StopAndWait()
		slog.Debug("dispatch worker pool stopped")
	})

	return pool
})

// Submit schedules f on the shared pool and returns a Task that can be waited on.
func Submit(f func()) pond.Task { //nolint:ireturn
	return workerPool.Get().Submit(f)
}

// Go schedules f on the shared pool and returns immediately. It returns an
// error if the pool has already been stopped (e.g. during process shutdown).
func Go(f func()) error {
	return workerPool.Get().Go(f)
}
