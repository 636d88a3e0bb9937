package future

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncContext_RunsInPostOrder(t *testing.T) {
	t.Parallel()

	ctx := NewSyncContext(4)
	defer ctx.Close()

	var mu sync.Mutex

	var order []int

	var wg sync.WaitGroup

	wg.Add(3)

	for i := 1; i <= 3; i++ {
		i := i

		ctx.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}

	wg.Wait()

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestSyncContext_RecoversPanics(t *testing.T) {
	t.Parallel()

	ctx := NewSyncContext(2)
	defer ctx.Close()

	done := make(chan struct{})

	ctx.Post(func() { panic("boom") })
	ctx.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mailbox goroutine died after panic")
	}
}

func TestSyncContext_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := NewSyncContext(0)
	ctx.Close()
	assert.NotPanics(t, ctx.Close)
}
