// SPDX-License-Identifier: MIT

// Package logging wraps slog.Logger with lvcorr field names and per-stage helpers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with lvcorr-specific context.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to w at the given minimum level.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that writes human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger discards everything. Library calls default to it.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))}
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// OrNoop returns l, or a NoopLogger when l is nil.
func OrNoop(l *Logger) *Logger {
	if l == nil {
		return NoopLogger()
	}
	return l
}

// WithRun tags every record with a correlation run id.
func (l *Logger) WithRun(id uuid.UUID) *Logger {
	return &Logger{Logger: l.Logger.With("run", id.String())}
}

// WithMode tags every record with the entry point ("matrix", "target", "target_map").
func (l *Logger) WithMode(mode string) *Logger {
	return &Logger{Logger: l.Logger.With("mode", mode)}
}

// LogSubset logs the outcome of row/column reduction.
func (l *Logger) LogSubset(ctx context.Context, rowsIn, rowsOut, cols int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "subset failed",
			"rows_in", rowsIn,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "subset resolved",
		"rows_in", rowsIn,
		"rows_out", rowsOut,
		"columns", cols,
	)
}

// LogDispatch logs the start of a target fan-out.
func (l *Logger) LogDispatch(ctx context.Context, targets, poolSize int) {
	l.DebugContext(ctx, "dispatching targets",
		"targets", targets,
		"pool_size", poolSize,
	)
}

// LogTask logs one finished target task.
func (l *Logger) LogTask(ctx context.Context, target string, rows int, elapsed time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "target failed",
			"target", target,
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "target completed",
		"target", target,
		"rows", rows,
		"elapsed", elapsed,
	)
}

// LogAssemble logs the final long-format table.
func (l *Logger) LogAssemble(ctx context.Context, pairs, failed int, method string) {
	if failed > 0 {
		l.WarnContext(ctx, "assembled with failed targets",
			"pairs", pairs,
			"failed", failed,
			"method", method,
		)
		return
	}
	l.DebugContext(ctx, "assembled",
		"pairs", pairs,
		"method", method,
	)
}
