package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWithRunAndQuery(t *testing.T) {
	var buf bytes.Buffer
	original := Logger
	t.Cleanup(func() { SetGlobalLogger(original) })

	SetGlobalLogger(zerolog.New(&buf))

	runID := xid.New()
	ctx := WithQuery(WithRun(context.Background(), runID), 42)
	Ctx(ctx).Info().Msg("hello")

	require.Contains(t, buf.String(), `"runID":"`+runID.String()+`"`)
	require.Contains(t, buf.String(), `"query":42`)
	require.Contains(t, buf.String(), `"message":"hello"`)
}

func TestDefaultContextLoggerFollowsGlobal(t *testing.T) {
	var buf bytes.Buffer
	original := Logger
	t.Cleanup(func() { SetGlobalLogger(original) })

	SetGlobalLogger(zerolog.New(&buf))
	Ctx(context.Background()).Warn().Msg("fallback")

	require.Contains(t, buf.String(), `"level":"warn"`)
}

func TestSlogRoutesToGlobal(t *testing.T) {
	var buf bytes.Buffer
	original := Logger
	t.Cleanup(func() { SetGlobalLogger(original) })

	SetGlobalLogger(zerolog.New(&buf))
	slog.Error("from slog", "component", "metrics")

	require.Contains(t, buf.String(), `"message":"from slog"`)
	require.Contains(t, buf.String(), `"component":"metrics"`)
}
