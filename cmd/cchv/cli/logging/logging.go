// Package logging wraps log/slog with component-scoped context helpers.
// Every record carries a "component" attribute so warnings from the JSONL
// parser, the session store, and the HTTP server can be told apart in
// interleaved output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

type componentKey struct{}

// defaultLogger holds the process-wide logger. Setup replaces it; before
// Setup is called records go to stderr at Warn level so parse warnings are
// visible even when the CLI never configures logging explicitly.
var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(newLogger(slog.LevelWarn, os.Stderr))
}

func newLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup configures the process-wide logger. Unknown level strings fall back
// to "warn" rather than failing, so a bad config value never silences the
// CLI entirely.
func Setup(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	defaultLogger.Store(newLogger(ParseLevel(level), w))
}

// ParseLevel maps a level name to its slog level. Unrecognized names map
// to Warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// WithComponent returns a context whose log records carry the component name.
func WithComponent(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, componentKey{}, name)
}

func attrs(ctx context.Context, extra []slog.Attr) []any {
	out := make([]any, 0, len(extra)+1)
	if name, ok := ctx.Value(componentKey{}).(string); ok && name != "" {
		out = append(out, slog.String("component", name))
	}
	for _, a := range extra {
		out = append(out, a)
	}
	return out
}

// Debug logs at debug level with the context's component attribute.
func Debug(ctx context.Context, msg string, extra ...slog.Attr) {
	defaultLogger.Load().DebugContext(ctx, msg, attrs(ctx, extra)...)
}

// Info logs at info level with the context's component attribute.
func Info(ctx context.Context, msg string, extra ...slog.Attr) {
	defaultLogger.Load().InfoContext(ctx, msg, attrs(ctx, extra)...)
}

// Warn logs at warn level with the context's component attribute.
func Warn(ctx context.Context, msg string, extra ...slog.Attr) {
	defaultLogger.Load().WarnContext(ctx, msg, attrs(ctx, extra)...)
}

// Error logs at error level with the context's component attribute.
func Error(ctx context.Context, msg string, extra ...slog.Attr) {
	defaultLogger.Load().ErrorContext(ctx, msg, attrs(ctx, extra)...)
}
