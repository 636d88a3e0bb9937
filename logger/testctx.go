package logger

import (
	"context"
	"testing"
)

// WithTest attaches a *testing.T to the context so that Get(ctx) routes log
// output through the test's own logging sink (via slogt) instead of the
// process-wide default logger.
func WithTest(ctx context.Context, t *testing.T) context.Context {
	t.Helper()

	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("test"), t)
}

func getTest(ctx context.Context) (*testing.T, bool) {
	if ctx == nil {
		return nil, false
	}

	v := ctx.Value(contextKey("test"))
	if v == nil {
		return nil, false
	}

	t, ok := v.(*testing.T)

	return t, ok
}
