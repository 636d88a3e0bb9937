package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSubsystem(t *testing.T) {
	ctx := t.Context()

	assert.Empty(t, GetSubsystem(ctx))

	ctx = WithSubsystem(ctx, "dispatch")
	assert.Equal(t, "dispatch", GetSubsystem(ctx))
}

func TestGetSubsystem_FallsBackToDefault(t *testing.T) {
	configMutex.Lock()
	subsystem.Store("promise")
	configMutex.Unlock()

	assert.Equal(t, "promise", GetSubsystem(t.Context()))

	ctx := WithSubsystem(t.Context(), "queue")
	assert.Equal(t, "queue", GetSubsystem(ctx))
}

func TestWithMuted(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		JSON:      true,
		MinLevel:  slog.LevelDebug,
		Output:    &buf,
	})

	ctx := WithMuted(t.Context(), true)
	Info(ctx, "should not appear")

	assert.Empty(t, buf.String())
}

func TestWithRequestId(t *testing.T) {
	ctx := t.Context()

	_, ok := GetRequestId(ctx)
	assert.False(t, ok)

	ctx = WithRequestId(ctx, "req-123")

	id, ok := GetRequestId(ctx)
	require.True(t, ok)
	assert.Equal(t, "req-123", id)
}

func TestWith(t *testing.T) {
	ctx := With(t.Context(), "op", "whenAll", "count", 3)

	vals := getValues(ctx)
	assert.Equal(t, []any{"op", "whenAll", "count", 3}, vals)

	ctx = With(ctx, "extra", true)
	vals = getValues(ctx)
	assert.Equal(t, []any{"op", "whenAll", "count", 3, "extra", true}, vals)
}

func TestGetHostname(t *testing.T) {
	name := GetHostname()
	assert.NotEmpty(t, name)
	assert.Equal(t, name, GetHostname())
}

func TestConfigureLoggingWithOptions_JSON(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "promise",
		JSON:      true,
		MinLevel:  slog.LevelInfo,
		Output:    &buf,
	})

	Info(t.Context(), "hello", "key", "value")

	var record map[string]any

	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "value", record["key"])
	assert.Equal(t, "promise", record["subsystem"])
}

func TestConfigureLoggingWithOptions_Text(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "promise",
		JSON:      false,
		MinLevel:  slog.LevelInfo,
		Output:    &buf,
	})

	Info(t.Context(), "hello")

	assert.True(t, strings.Contains(buf.String(), "msg=hello"))
}

func TestGet_NoContext(t *testing.T) {
	l := Get()
	assert.NotNil(t, l)
}

func TestConfigureLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := ConfigureLoggingWithOptions(Options{
		Subsystem: "promise",
		JSON:      true,
		MinLevel:  slog.LevelDebug,
		Output:    &buf,
	})

	assert.NotNil(t, logger)
}
