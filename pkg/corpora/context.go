package corpora

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "corpora.logger"

// WithLogger returns a context carrying the given structured logger.
//
// Every engine, index, and channel operation pulls its logger from context,
// falling back to slog.Default(), so tests and embedding applications can
// route logs without global state.
//
// Example:
//
//	logger := slog.New(logging.NewZerologHandler(os.Stderr, slog.LevelInfo))
//	ctx := corpora.WithLogger(context.Background(), logger)
//	err := eng.Ingest(ctx, "report.pdf", text)
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger carried by ctx, or slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
