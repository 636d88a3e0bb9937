package future

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay_ZeroIsAlreadyCompleted(t *testing.T) {
	t.Parallel()

	fut := Delay(0)
	assert.True(t, fut.IsCompletedSuccessfully())
}

func TestDelay_CompletesAfterDuration(t *testing.T) {
	t.Parallel()

	fut := Delay(10 * time.Millisecond)

	assert.False(t, fut.IsCompleted())

	err := fut.Wait()
	require.NoError(t, err)
	assert.True(t, fut.IsCompletedSuccessfully())
}

func TestDelay_CancelStopsTimer(t *testing.T) {
	t.Parallel()

	fut := Delay(time.Hour)

	require.NoError(t, fut.Cancel())

	completed, _ := fut.WaitFor(20 * time.Millisecond)
	assert.False(t, completed, "cancel is advisory only; it does not itself complete the future")
}
