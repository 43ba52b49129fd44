// Package logging provides structured logging using Go's slog package.
//
// Logs go to stderr so that command output on stdout stays machine
// readable.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RunIDKey is the context key for batch run IDs.
	RunIDKey ContextKey = "run_id"
)

var defaultLogger *slog.Logger

func init() {
	InitLogger(LevelWarn, FormatText)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, atferrors.NewValidation("log.level", fmt.Sprintf("unknown level %q", s))
}

// ParseFormat converts "json" or "text" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text", "":
		return FormatText, nil
	}
	return FormatText, atferrors.NewValidation("log.format", fmt.Sprintf("unknown format %q", s))
}

// InitLogger initializes the global logger with the specified level and
// format, writing to stderr.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// WithRunID adds a batch run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the batch run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// ParseEvent logs the outcome of parsing one source.
func ParseEvent(ctx context.Context, source string, texts, diagnostics int, duration time.Duration, args ...any) {
	allArgs := []any{
		"source", source,
		"texts", texts,
		"diagnostics", diagnostics,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	InfoContext(ctx, "atf_parse", allArgs...)
}

// DiagnosticEvent logs one diagnostic at a level matching its severity.
func DiagnosticEvent(ctx context.Context, source string, d *atferrors.Diagnostic) {
	level := slog.LevelInfo
	switch d.Severity {
	case atferrors.SeverityError:
		level = slog.LevelError
	case atferrors.SeverityWarning:
		level = slog.LevelWarn
	}
	LoggerFromContext(ctx).Log(ctx, level, "atf_diagnostic",
		"source", source,
		"kind", string(d.Kind),
		"line", d.Pos.Line,
		"column", d.Pos.Column,
		"message", d.Message,
	)
}

// BatchEvent logs batch progress ("start", "done").
func BatchEvent(ctx context.Context, event string, files, workers int, args ...any) {
	allArgs := []any{
		"event", event,
		"files", files,
		"workers", workers,
	}
	allArgs = append(allArgs, args...)
	InfoContext(ctx, "atf_batch", allArgs...)
}

// FileError logs a file that could not be read or written.
func FileError(ctx context.Context, path, operation string, err error, args ...any) {
	allArgs := []any{
		"path", path,
		"operation", operation,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	ErrorContext(ctx, "atf_file_error", allArgs...)
}
