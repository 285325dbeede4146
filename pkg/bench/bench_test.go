package bench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/authzed/rpqplan/pkg/egraph"
	"github.com/authzed/rpqplan/pkg/eval/mocks"
	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/matrix"
	"github.com/authzed/rpqplan/pkg/pattern"
	"github.com/authzed/rpqplan/pkg/plan"
)

func mustMatrix(t *testing.T, n uint, entries ...[2]uint) *matrix.Matrix {
	t.Helper()
	m := matrix.New(n, n)
	for _, e := range entries {
		require.NoError(t, m.Set(e[0], e[1]))
	}
	return m
}

// testGraph is a chain v1 -a-> v2 -a-> v3 -b-> v4.
func testGraph(t *testing.T) *graph.Graph {
	return &graph.Graph{
		Matrices: map[string]*matrix.Matrix{
			"a": mustMatrix(t, 4, [2]uint{0, 1}, [2]uint{1, 2}),
			"b": mustMatrix(t, 4, [2]uint{2, 3}),
		},
		LabelSizes:  plan.LabelSizes{"a": 2, "b": 1},
		Vertices:    map[string]uint{"v1": 1, "v2": 2, "v3": 3, "v4": 4},
		NumVertices: 4,
	}
}

func mustReadQueries(t *testing.T, text string) []pattern.NumberedQuery {
	t.Helper()
	queries, err := pattern.ReadQueries(strings.NewReader(text))
	require.NoError(t, err)
	return queries
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfigWithOptionsAndDefaults()
	require.Equal(t, 1000, cfg.Runs)
	require.Equal(t, 1000, cfg.Warmup)
	require.Equal(t, ModeRandom, cfg.Mode)
	require.Equal(t, 1, cfg.Concurrency)
	require.Equal(t, "full", cfg.RuleSet)
	require.Equal(t, 30, cfg.Limits.MaxIterations)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		opt  ConfigOption
		err  string
	}{
		{"no runs", WithRuns(0), "runs must be positive"},
		{"negative warmup", WithWarmup(-1), "warmup must not be negative"},
		{"unknown mode", WithMode("exhaustive"), `unknown mode "exhaustive"`},
		{"no concurrency", WithConcurrency(0), "concurrency must be positive"},
		{"unknown rules", WithRuleSet("everything"), `unknown rule set "everything"`},
		{"negative limits", WithLimits(egraph.Limits{MaxNodes: -1}), "must not be negative"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorContains(t, NewConfigWithOptionsAndDefaults(tc.opt).Validate(), tc.err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
runs: 20
mode: deterministic
rules: minimal
limits:
  maxNodes: 50
  timeLimit: 2s
`), 0o600))

	cfg := NewConfigWithOptionsAndDefaults()
	require.NoError(t, LoadConfigFile(path, cfg))
	require.Equal(t, 20, cfg.Runs)
	require.Equal(t, 1000, cfg.Warmup)
	require.Equal(t, ModeDeterministic, cfg.Mode)
	require.Equal(t, "minimal", cfg.RuleSet)
	require.Equal(t, egraph.Limits{MaxIterations: 30, MaxNodes: 50, TimeLimit: 2 * time.Second}, cfg.Limits)

	require.ErrorContains(t, LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), cfg), "unable to read bench config")

	require.NoError(t, os.WriteFile(path, []byte("runs: [1"), 0o600))
	require.ErrorContains(t, LoadConfigFile(path, cfg), "unable to parse bench config")
}

func TestRunRandom(t *testing.T) {
	defer goleak.VerifyNone(t)

	queries := mustReadQueries(t, `1,?x <a>/<b> ?y
2,<v1> (<a>)+ ?y
3,?x <missing> ?y
4,<v1> <a> <v2>
`)
	require.Len(t, queries, 4)

	var out bytes.Buffer
	cfg := NewConfigWithOptionsAndDefaults(WithRuns(200), WithWarmup(10), WithSeed(7), WithConcurrency(2))
	runner, err := NewRunner(cfg, testGraph(t), &out)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background(), queries)
	require.NoError(t, err)
	require.Equal(t, uint64(7), summary.Seed)
	require.Len(t, summary.Reports, 4)
	require.Equal(t, 2, summary.Failed())

	seq := summary.Reports[0]
	require.NoError(t, seq.Err)
	require.Len(t, seq.Samples, 200)
	require.Equal(t, 1, seq.DistinctPlans)
	for _, s := range seq.Samples {
		require.Equal(t, uint64(1), s.Count)
	}

	plus := summary.Reports[1]
	require.NoError(t, plus.Err)
	require.Len(t, plus.Samples, 200)
	require.Greater(t, plus.DistinctPlans, 1)
	for _, s := range plus.Samples {
		require.Equal(t, uint64(2), s.Count, "plan %s", s.Plan)
	}
	require.LessOrEqual(t, plus.Best.Elapsed, plus.Median)
	require.LessOrEqual(t, plus.Median, plus.Worst.Elapsed)

	require.ErrorIs(t, summary.Reports[2].Err, plan.ErrUnknownLabel)
	require.ErrorIs(t, summary.Reports[3].Err, plan.ErrUnsupported)

	report := out.String()
	require.Contains(t, report, "First 2 runs")
	require.Contains(t, report, "unable to execute query: no such label: missing")
	require.Contains(t, report, "Distinct plans: 1 of 200 samples")

	// Reports are written in input order regardless of concurrency.
	last := -1
	for _, q := range queries {
		idx := strings.Index(report, "Running "+strconv.Itoa(q.ID)+",")
		require.Greater(t, idx, last)
		last = idx
	}
}

func TestRunDeterministic(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out bytes.Buffer
	cfg := NewConfigWithOptionsAndDefaults(WithRuns(5), WithWarmup(0), WithMode(ModeDeterministic))
	runner, err := NewRunner(cfg, testGraph(t), &out, WithClock(clock.NewMock()))
	require.NoError(t, err)

	summary, err := runner.Run(context.Background(), mustReadQueries(t, "1,?x <a>/(<a>)* ?y\n"))
	require.NoError(t, err)

	r := summary.Reports[0]
	require.NoError(t, r.Err)
	require.Len(t, r.Samples, 5)
	require.Equal(t, 1, r.DistinctPlans)
	require.Equal(t, time.Duration(0), r.Mean)
	require.Equal(t, uint64(3), r.Best.Count)
	require.Contains(t, out.String(), "Median: 0s")
}

func TestRunDropsFailedEvaluations(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	engine.EXPECT().Label(gomock.Any()).Return(nil, errors.New("engine unavailable")).Times(3)

	var out bytes.Buffer
	cfg := NewConfigWithOptionsAndDefaults(WithRuns(3), WithWarmup(0))
	runner, err := NewRunner(cfg, testGraph(t), &out, WithEngine(engine))
	require.NoError(t, err)

	summary, err := runner.Run(context.Background(), mustReadQueries(t, "1,?x <a> ?y\n"))
	require.NoError(t, err)
	require.Equal(t, 0, summary.Failed())

	r := summary.Reports[0]
	require.Empty(t, r.Samples)
	require.Equal(t, 3, r.Dropped)
	require.Contains(t, out.String(), "every evaluation failed")
}

func TestRunCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	runner, err := NewRunner(NewConfigWithOptionsAndDefaults(WithRuns(5)), testGraph(t), &out)
	require.NoError(t, err)

	summary, err := runner.Run(ctx, mustReadQueries(t, "1,?x <a> ?y\n2,?x <b> ?y\n"))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, summary.Failed())
	require.Empty(t, out.String())
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	qr := &QueryReport{Samples: []Sample{
		{Plan: "c", Elapsed: 3 * time.Millisecond},
		{Plan: "a", Elapsed: 1 * time.Millisecond},
		{Plan: "b", Elapsed: 2 * time.Millisecond},
		{Plan: "d", Elapsed: 4 * time.Millisecond},
	}}
	qr.summarize()

	require.Equal(t, "a", qr.Best.Plan)
	require.Equal(t, "d", qr.Worst.Plan)
	require.Equal(t, 2500*time.Microsecond, qr.Mean)
	require.Equal(t, 2500*time.Microsecond, qr.Median)

	// Samples keep the order they were taken in.
	require.Equal(t, "c", qr.Samples[0].Plan)
}
