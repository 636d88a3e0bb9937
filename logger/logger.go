// Package logger provides structured logging utilities built on Go's slog package.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/thesis-labs/promise/shutdown"
)

// subsystem stores the default subsystem name for the process.
// This identifies which component is generating logs (e.g., "dispatch", "queue", "updatesource").
//
// The subsystem value can be overridden on a per-context basis using WithSubsystem().
// When no context override is present, GetSubsystem() returns this default value.
//
// Thread-safety: Uses atomic.Value for lock-free concurrent reads and writes.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex protects concurrent calls to ConfigureLoggingWithOptions.
//
// ConfigureLoggingWithOptions modifies global state including the default slog
// logger, the legacy log package's default logger, and the default subsystem
// value. The mutex ensures each configuration call completes atomically from
// the perspective of other goroutines. Normal logging does not need it.
var configMutex sync.Mutex //nolint:gochecknoglobals

// contextKey is an unexported type used for storing values in context.Context,
// preventing key collisions with other packages.
type contextKey string

// Fatal logs an error message and exits the process after draining shutdown hooks.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)

	shutdown.Shutdown()

	time.Sleep(time.Second)

	os.Exit(1)
}

// Debug logs a debug-level message using the logger retrieved from the context.
func Debug(ctx context.Context, msg string, args ...any) {
	Get(ctx).DebugContext(ctx, msg, args...)
}

// Info logs an info-level message using the logger retrieved from the context.
func Info(ctx context.Context, msg string, args ...any) {
	Get(ctx).InfoContext(ctx, msg, args...)
}

// Warn logs a warning-level message using the logger retrieved from the context.
func Warn(ctx context.Context, msg string, args ...any) {
	Get(ctx).WarnContext(ctx, msg, args...)
}

// Error logs an error-level message using the logger retrieved from the context.
func Error(ctx context.Context, msg string, args ...any) {
	Get(ctx).ErrorContext(ctx, msg, args...)
}

// Options is used to configure logging behavior and output format.
type Options struct {
	// Subsystem identifies the component generating the logs, e.g. "dispatch", "queue".
	Subsystem string

	// JSON determines the output format. When true, logs are formatted as JSON
	// (slog.JSONHandler). When false, logs use human-readable text (slog.TextHandler).
	JSON bool

	// MinLevel is the minimum log level for the slog logger.
	MinLevel slog.Level

	// LegacyLevel is the minimum level used when redirecting the standard log package.
	LegacyLevel slog.Level

	// Output is the destination for log output. If nil, defaults to os.Stdout.
	Output io.Writer
}

// CreateLoggerHandler creates and configures a slog.Handler based on the provided options.
// The handler wraps its output so that errors annotated via AnnotateError surface their
// attributes in the log output.
func CreateLoggerHandler(opts Options) slog.Handler {
	var handler slog.Handler

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	return &slogErrorLogger{
		inner: handler,
	}
}

// ConfigureLoggingWithOptions configures logging for the process and returns the default logger.
// Thread-safe; concurrent calls are serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	handler := CreateLoggerHandler(opts)

	logger := slog.New(handler)

	slog.SetDefault(logger)

	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// Option is a functional option for configuring logging via ConfigureLogging.
type Option func(*Options)

// ErrInvalidLogOutput is returned when an invalid log output destination is specified.
var ErrInvalidLogOutput = errors.New("invalid log output")

// ConfigureLogging configures logging for the process from a Config loaded via
// the config package, then applies any functional options on top.
func ConfigureLogging(app string, cfg Config, opts ...Option) *slog.Logger {
	output, err := resolveOutput(cfg.Output)
	if err != nil {
		output = os.Stdout
	}

	options := Options{
		Subsystem:   app,
		JSON:        cfg.JSON,
		MinLevel:    cfg.MinLevel,
		LegacyLevel: cfg.LegacyLevel,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

// Config carries the subset of logging configuration that is loaded from YAML
// via the config package, rather than hardcoded or passed as Options directly.
type Config struct {
	JSON        bool       `yaml:"json"`
	MinLevel    slog.Level `yaml:"minLevel"`
	LegacyLevel slog.Level `yaml:"legacyLevel"`
	Output      string     `yaml:"output"`
}

func resolveOutput(name string) (*os.File, error) {
	switch name {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, name)
	}
}

// WithMuted adds a muted flag to the context. When muted is true, all logging
// operations on this context are suppressed. Useful for silencing high-frequency
// internal polling, such as PromiseQueue idle spins.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("mute"), muted)
}

func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	val := ctx.Value(contextKey("mute"))
	if val == nil {
		return false
	}

	muted, ok := val.(bool)

	return ok && muted
}

// WithSubsystem adds a subsystem name to the context, overriding the process-wide default.
func WithSubsystem(ctx context.Context, subsystem string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("subsystem"), subsystem)
}

// GetSubsystem returns the subsystem from the context. If the subsystem is not
// provided, the process-wide default subsystem configured via ConfigureLogging is used.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	sub := ctx.Value(contextKey("subsystem"))
	if sub != nil {
		val, ok := sub.(string)
		if ok {
			return val
		}
	}

	if defaultSub := subsystem.Load(); defaultSub != nil {
		if val, ok := defaultSub.(string); ok {
			return val
		}
	}

	return ""
}

// WithRequestId adds a caller-supplied correlation ID to the context, included
// in all log messages produced from it.
func WithRequestId(ctx context.Context, requestId string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("request_id"), requestId)
}

// GetRequestId returns the correlation ID from the context, if present.
func GetRequestId(ctx context.Context) (string, bool) { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	reqId := ctx.Value(contextKey("request_id"))
	if reqId == nil {
		return "", false
	}

	val, ok := reqId.(string)
	if !ok {
		return "", false
	}

	return val, true
}

// hostname holds the process's hostname, included in all log messages via the
// "host" attribute to help correlate logs across replicas of a distributed
// PromiseQueue consumer set.
//
// Computed lazily on first access and cached for the lifetime of the process.
// nolint:gochecknoglobals
var hostname = lazyHostname()

func lazyHostname() func() string {
	var once sync.Once

	var value string

	return func() string {
		once.Do(func() {
			h, err := os.Hostname()
			if err != nil {
				value = "unknown"

				return
			}

			value = h
		})

		return value
	}
}

// GetHostname returns the process's hostname (or "unknown" if unavailable).
func GetHostname() string {
	return hostname()
}

// getRealContext extracts the first non-nil context from a variadic list,
// falling back to context.Background().
func getRealContext(ctx ...context.Context) context.Context {
	var realCtx context.Context

	for _, c := range ctx {
		if c != nil {
			realCtx = c //nolint:fatcontext

			break
		}
	}

	if realCtx == nil {
		realCtx = context.Background()
	}

	return realCtx
}

// nullHandler is a slog.Handler that discards all log output. Used to implement
// the muted logging feature with near-zero overhead, since Enabled always
// returns false.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool { return false }

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error { return nil }

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler { return n }

func (n *nullHandler) WithGroup(_ string) slog.Handler { return n }

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals

// getBaseLogger returns a logger with standard contextual attributes pre-configured:
// subsystem, host, request-id, and any values added via With(). When running
// under a *testing.T attached via WithTest, output is routed through slogt.
func getBaseLogger(ctx context.Context) *slog.Logger {
	if isMuted(ctx) {
		return nullLogger
	}

	logger := slog.Default()

	if t, ok := getTest(ctx); ok {
		logger = slogt.New(t, slogt.JSON(), slogt.Factory(func(w io.Writer) slog.Handler {
			return CreateLoggerHandler(Options{
				JSON:        true,
				MinLevel:    slog.LevelDebug,
				LegacyLevel: slog.LevelDebug,
				Output:      w,
			})
		}))
	}

	logger = logger.With(
		"subsystem", GetSubsystem(ctx),
		"host", GetHostname())

	requestId, found := GetRequestId(ctx)
	if found {
		logger = logger.With("request-id", requestId)
	}

	vals := getValues(ctx)
	if vals != nil {
		logger = logger.With(vals...)
	}

	return logger
}

// Get returns a logger for the given context (or the default logger if no
// context is supplied). Use WithSubsystem, WithMuted, With, and WithTest to
// shape its behavior.
//
//nolint:contextcheck
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := getRealContext(ctx...)

	return getBaseLogger(realCtx)
}

// With returns a new context carrying additional key-value pairs that will be
// included in every log message produced from that context. Values are
// cumulative across nested calls.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		return ctx
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, contextKey("loggerValues"), vals)
}

func getValues(ctx context.Context) []any { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	vals := ctx.Value(contextKey("loggerValues"))
	if vals != nil {
		val, ok := vals.([]any)
		if ok {
			return val
		}

		return nil
	}

	return nil
}
