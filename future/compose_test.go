package future

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhenAll_EmptyIsAlreadyCompleted(t *testing.T) {
	t.Parallel()

	fut := WhenAll()
	assert.True(t, fut.IsCompletedSuccessfully())
}

func TestWhenAll_AllSucceed(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)
	b, pb := New[int](nil)

	fut := WhenAll(a, b)

	pa.TrySetResult(1)
	pb.TrySetResult(2)

	require.NoError(t, fut.Wait())
	assert.True(t, fut.IsCompletedSuccessfully())
}

func TestWhenAll_OneFaults(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)
	b, pb := New[int](nil)

	fut := WhenAll(a, b)

	pa.TrySetResult(1)
	pb.TrySetException(errBoom)

	require.Error(t, fut.Wait())
	assert.True(t, fut.IsFaulted())
	assert.ErrorIs(t, fut.Err(), errBoom)
}

func TestWhenAll_AllCancelled(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)
	b, pb := New[int](nil)

	fut := WhenAll(a, b)

	pa.TryCancel()
	pb.TryCancel()

	fut.Wait() //nolint:errcheck
	assert.True(t, fut.IsCancelled())
}

func TestWhenAny_FirstWins(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)
	b, _ := New[int](nil)

	fut := WhenAny(a, b)

	pa.TrySetResult(5)

	v, err := fut.Join()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestWhenAny_EmptyPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		WhenAny[int]()
	})
}
