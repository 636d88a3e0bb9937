package future

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesis-labs/promise/errors"
)

func TestDispatchContinuation_Inline(t *testing.T) {
	t.Parallel()

	ran := false

	dispatchContinuation(RanToCompletion, &continuationEntry{
		invoke: func() { ran = true },
	})

	assert.True(t, ran)
}

func TestDispatchContinuation_ExcludedRunsOnSkip(t *testing.T) {
	t.Parallel()

	invoked := false
	skipped := false

	dispatchContinuation(Faulted, &continuationEntry{
		options: OnlyOnRanToCompletion,
		invoke:  func() { invoked = true },
		onSkip:  func() { skipped = true },
	})

	assert.False(t, invoked)
	assert.True(t, skipped)
}

func TestDispatchContinuation_Async_UsesPool(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup

	wg.Add(1)

	dispatchContinuation(RanToCompletion, &continuationEntry{
		async:  true,
		invoke: func() { wg.Done() },
	})

	done := make(chan struct{})

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async continuation never ran")
	}
}

func TestDispatchContinuation_ContextPosting(t *testing.T) {
	t.Parallel()

	ctx := NewSyncContext(1)
	defer ctx.Close()

	done := make(chan struct{})

	dispatchContinuation(RanToCompletion, &continuationEntry{
		ctx:    ctx,
		invoke: func() { close(done) },
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("context-posted continuation never ran")
	}
}

func TestDispatchContinuation_InlineOnOwnGoroutine(t *testing.T) {
	t.Parallel()

	ctx := NewSyncContext(1)
	defer ctx.Close()

	done := make(chan struct{})

	// Posting the outer closure onto ctx means it runs on ctx's mailbox
	// goroutine. From inside it, dispatching a second continuation bound to
	// the same ctx must run inline rather than post back onto the mailbox
	// it's currently occupying, since a buffer of 1 would otherwise fill and
	// the post would block forever with no other goroutine left to drain it.
	ctx.Post(func() {
		ranInline := false

		dispatchContinuation(RanToCompletion, &continuationEntry{
			ctx:    ctx,
			invoke: func() { ranInline = true },
		})

		assert.True(t, ranInline)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("self-dispatched continuation deadlocked")
	}
}

func TestRunContinuation_RecoversPanic(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		runContinuation(func() { panic("boom") })
	})
}

func TestRecoverContinuationPanic_WrapsError(t *testing.T) {
	t.Parallel()

	err := recoverContinuationPanic(errBoom)
	require.ErrorIs(t, err, errors.ErrPanicRecovery)
	require.ErrorIs(t, err, errBoom)
}
