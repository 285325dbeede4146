// Package logging holds the process-wide zerolog logger and the helpers that
// annotate context loggers with benchmark identifiers.
package logging

import (
	"context"
	"log/slog"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Logger is the process logger. It discards everything until the root
// command installs a configured logger.
var Logger zerolog.Logger

func init() {
	SetGlobalLogger(zerolog.Nop())
}

// SetGlobalLogger replaces the process logger and makes it the fallback for
// contexts without a logger. slog output is routed to it too.
func SetGlobalLogger(logger zerolog.Logger) {
	Logger = logger
	zerolog.DefaultContextLogger = &Logger

	handler := slogzerolog.Option{Level: slog.LevelDebug, Logger: &Logger}.NewZerologHandler()
	slog.SetDefault(slog.New(handler))
}

// Ctx returns the logger carried by ctx, or the process logger.
func Ctx(ctx context.Context) *zerolog.Logger { return zerolog.Ctx(ctx) }

// WithRun annotates the context logger with a benchmark run ID.
func WithRun(ctx context.Context, runID xid.ID) context.Context {
	return annotate(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Stringer("runID", runID)
	})
}

// WithQuery annotates the context logger with the query being processed.
func WithQuery(ctx context.Context, queryID int) context.Context {
	return annotate(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Int("query", queryID)
	})
}

func annotate(ctx context.Context, fields func(zerolog.Context) zerolog.Context) context.Context {
	return fields(Ctx(ctx).With()).Logger().WithContext(ctx)
}

func Debug() *zerolog.Event { return Logger.Debug() }

func Trace() *zerolog.Event { return Logger.Trace() }

func Warn() *zerolog.Event { return Logger.Warn() }

func Error() *zerolog.Event { return Logger.Error() }

func Err(err error) *zerolog.Event { return Logger.Err(err) }
