package corpora

import (
	"context"
	"log/slog"
)

// LogDebug logs a debug-level message through the context logger.
//
// Checks whether the level is enabled before building the record.
func LogDebug(ctx context.Context, msg string, args ...any) {
	logger := LoggerFromContext(ctx)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	logger.DebugContext(ctx, msg, args...)
}

// LogInfo logs an info-level message through the context logger.
func LogInfo(ctx context.Context, msg string, args ...any) {
	logger := LoggerFromContext(ctx)
	if !logger.Enabled(ctx, slog.LevelInfo) {
		return
	}
	logger.InfoContext(ctx, msg, args...)
}

// LogWarn logs a warning-level message through the context logger.
func LogWarn(ctx context.Context, msg string, args ...any) {
	logger := LoggerFromContext(ctx)
	if !logger.Enabled(ctx, slog.LevelWarn) {
		return
	}
	logger.WarnContext(ctx, msg, args...)
}

// LogError logs an error-level message through the context logger.
//
// If err is a *Error its kind and tags are appended as attributes.
func LogError(ctx context.Context, msg string, err error, args ...any) {
	logger := LoggerFromContext(ctx)
	if !logger.Enabled(ctx, slog.LevelError) {
		return
	}
	if err != nil {
		args = append(args, "error", err)
		if ce, ok := err.(*Error); ok {
			for _, attr := range ce.Attrs() {
				args = append(args, attr)
			}
		}
	}
	logger.ErrorContext(ctx, msg, args...)
}
