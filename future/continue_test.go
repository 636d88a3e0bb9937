package future

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThen_MapsSuccessfulResult(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)

	out := Then(a, func(v int) (string, error) {
		return strconv.Itoa(v * 2), nil
	})

	pa.TrySetResult(21)

	v, err := out.Join()
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestThen_PropagatesFaultWithoutRunningFn(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)

	called := false

	out := Then(a, func(int) (string, error) {
		called = true

		return "", nil
	})

	pa.TrySetException(errBoom)

	_, err := out.Join()
	require.ErrorIs(t, err, errBoom)
	assert.False(t, called)
	assert.True(t, out.IsFaulted())
}

func TestCatch_RecoversFault(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)

	out := Catch(a, func(error) (int, error) {
		return 99, nil
	})

	pa.TrySetException(errBoom)

	v, err := out.Join()
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestCatch_PassesThroughSuccess(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)

	out := Catch(a, func(error) (int, error) {
		t.Fatal("must not be called on success")

		return 0, nil
	})

	pa.TrySetResult(3)

	v, err := out.Join()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestFinally_RunsRegardlessAndPreservesOutcome(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)

	ran := false

	out := Finally(a, func() { ran = true })

	pa.TrySetException(errBoom)

	_, err := out.Join()
	require.ErrorIs(t, err, errBoom)
	assert.True(t, ran)
}

func TestTransform_SeesResultAndError(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)

	out := Transform(a, func(v int, err error) (string, error) {
		if err != nil {
			return "had-error", nil
		}

		return strconv.Itoa(v), nil
	})

	pa.TrySetException(errBoom)

	v, err := out.Join()
	require.NoError(t, err)
	assert.Equal(t, "had-error", v)
}

func TestContinueWith_FaultsOnActionPanic(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)
	pa.TrySetResult(1)

	q := ContinueWith(a, func(*Future[int], *Promise[string]) {
		panic(errBoom)
	})

	_, err := q.Join()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, q.IsFaulted())
}

func TestContinueWith_OnlyOnRanToCompletionSkipsActionOnFault(t *testing.T) {
	t.Parallel()

	a, pa := New[int](nil)

	called := false

	q := ContinueWith(a, func(*Future[int], *Promise[string]) {
		called = true
	}, OnlyOnRanToCompletion)

	pa.TrySetException(errBoom)

	_, err := q.Join()
	require.ErrorIs(t, err, ErrCancelled)
	assert.False(t, called)
	assert.True(t, q.IsCancelled())
}

func TestChainFuture_CompletesOnceNestedDoes(t *testing.T) {
	t.Parallel()

	nested, pNested := New[int](nil)
	out, pOut := New[int](nil)

	ChainFuture(nested, pOut)

	pNested.TrySetResult(77)

	v, err := out.Join()
	require.NoError(t, err)
	assert.Equal(t, 77, v)
}
