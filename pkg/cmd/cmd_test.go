package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/authzed/rpqplan/pkg/bench"
	"github.com/authzed/rpqplan/pkg/cache"
	"github.com/authzed/rpqplan/pkg/optimizer"
)

// alice knows bob, bob knows carol, carol likes alice.
var socialGraph = map[string]string{
	"edges.txt":    "<knows> 1\n<likes> 2\n",
	"vertices.txt": "<alice> 1\n<bob> 2\n<carol> 3\n",
	"1.txt":        "%%MatrixMarket matrix coordinate pattern general\n3 3 2\n1 2\n2 3\n",
	"2.txt":        "%%MatrixMarket matrix coordinate pattern general\n3 3 1\n3 1\n",
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd, err := BuildRootCommand()
	require.NoError(t, err)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--memory-limit-ratio=0", "--log-level=error"))
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildRootCommand(t *testing.T) {
	rootCmd, err := BuildRootCommand()
	require.NoError(t, err)
	require.Equal(t, "rpqplan", rootCmd.Use)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"bench", "eval", "explain", "man", "version"})

	benchCmd, _, err := rootCmd.Find([]string{"bench"})
	require.NoError(t, err)
	for _, flag := range []string{"runs", "warmup", "cost", "rules", "max-iterations", "max-nodes", "time-limit", "concurrency", "seed", "config", "metrics-addr"} {
		require.NotNil(t, benchCmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
	require.Equal(t, "1000", benchCmd.Flags().Lookup("runs").DefValue)
	require.Equal(t, "random", benchCmd.Flags().Lookup("cost").DefValue)
}

func TestFlagParsingError(t *testing.T) {
	_, err := execute(t, "explain", "--no-such-flag", "graph", "query")
	require.ErrorIs(t, err, ErrParsing)
}

func TestManCommand(t *testing.T) {
	out, err := execute(t, "man")
	require.NoError(t, err)
	require.Contains(t, out, ".TH")
	require.Contains(t, out, "bench")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.NotEmpty(t, strings.TrimSpace(out))
}

func TestExplainCommand(t *testing.T) {
	dir := writeFiles(t, socialGraph)

	out, err := execute(t, "explain", dir, "?x <knows>/<knows> ?y")
	require.NoError(t, err)
	require.Contains(t, out, "Input plan (cost")
	require.Contains(t, out, "Saturation: saturated")
	require.Contains(t, out, "Best plan (cost")
	require.Contains(t, out, "Label(knows, nvals=2)")

	_, err = execute(t, "explain", dir, "?x <know> ?y")
	require.ErrorContains(t, err, "no such label: know (did you mean knows?)")

	_, err = execute(t, "explain", dir, "?x <knows ?y")
	require.Error(t, err)
}

func TestEvalCommand(t *testing.T) {
	dir := writeFiles(t, socialGraph)

	out, err := execute(t, "eval", "--repeat", "2", dir, "?x <knows>/<knows> ?y", "?x (<knows>|<likes>)+ ?y")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "?x <knows>/<knows> ?y\t1\t"), lines[0])
	require.Equal(t, lines[0][strings.LastIndex(lines[0], "\t"):], lines[1][strings.LastIndex(lines[1], "\t"):])

	// Every vertex reaches every vertex around the knows/likes cycle.
	require.True(t, strings.HasPrefix(lines[2], "?x (<knows>|<likes>)+ ?y\t9\t"), lines[2])

	_, err = execute(t, "eval", "--repeat", "0", dir, "?x <knows> ?y")
	require.ErrorContains(t, err, "repeat must be positive")
}

func TestEvalCommandContinuesPastFailedQueries(t *testing.T) {
	dir := writeFiles(t, socialGraph)

	out, err := execute(t, "eval", dir, "?x <nope> ?y", "<alice> <knows> <bob>", "?x <knows> ?y")
	require.ErrorContains(t, err, "2 of 3 queries failed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "?x <nope> ?y\tunable to execute query: "), lines[0])
	require.Contains(t, lines[0], "no such label: nope")
	require.True(t, strings.HasPrefix(lines[1], "<alice> <knows> <bob>\tunable to execute query: "), lines[1])
	require.Contains(t, lines[1], "unsupported query")
	require.True(t, strings.HasPrefix(lines[2], "?x <knows> ?y\t2\t"), lines[2])
}

func TestLoadBenchConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: 20\nwarmup: 5\nmode: deterministic\n"), 0o600))

	config := bench.NewConfigWithOptionsAndDefaults()
	cmd := &cobra.Command{Use: "bench"}
	require.NoError(t, RegisterBenchFlags(cmd, config))
	require.NoError(t, cmd.Flags().Parse([]string{"--runs", "7", "--max-nodes", "99"}))

	require.NoError(t, loadBenchConfigFile(cmd.Flags(), path, config))
	require.Equal(t, 7, config.Runs)
	require.Equal(t, 5, config.Warmup)
	require.Equal(t, bench.ModeDeterministic, config.Mode)
	require.Equal(t, 99, config.Limits.MaxNodes)
	require.Equal(t, 30, config.Limits.MaxIterations)
}

func TestParseMaxCost(t *testing.T) {
	tcs := []struct {
		value    string
		expected uint64
		err      string
	}{
		{"16MiB", 16 << 20, ""},
		{"1KB", 1000, ""},
		{"10%", 100, ""},
		{"100%", 1000, ""},
		{"101%", 0, "percentage greater than 100"},
		{"x%", 0, "failed to parse percentage"},
		{"lots", 0, "error parsing cache max memory"},
	}
	for _, tc := range tcs {
		t.Run(tc.value, func(t *testing.T) {
			maxCost, err := parseMaxCost(tc.value, 1000)
			if tc.err != "" {
				require.ErrorContains(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, maxCost)
		})
	}
}

func TestPlanCacheConfigComplete(t *testing.T) {
	disabled, err := (&PlanCacheConfig{MaxCost: "16MiB", Disabled: true}).Complete()
	require.NoError(t, err)
	require.False(t, disabled.Set("key", optimizer.Result{}, 1))
	_, ok := disabled.Get("key")
	require.False(t, ok)

	plans, err := (&PlanCacheConfig{MaxCost: "1MiB", DefaultTTL: time.Minute}).Complete()
	require.NoError(t, err)
	t.Cleanup(plans.Close)
	require.True(t, plans.Set(cache.StringKey("key"), optimizer.Result{Cost: 2}, 1))
	plans.Wait()
	require.Eventually(t, func() bool {
		result, ok := plans.Get("key")
		return ok && result.Cost == 2
	}, time.Second, 10*time.Millisecond)

	_, err = (&PlanCacheConfig{MaxCost: "lots"}).Complete()
	require.Error(t, err)
}

func TestMetricsHandler(t *testing.T) {
	config := bench.NewConfigWithOptionsAndDefaults(bench.WithRuns(42))
	srv := httptest.NewServer(MetricsHandler(config.DebugMap))
	t.Cleanup(srv.Close)

	get := func(path string) (*http.Response, []byte) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		var body bytes.Buffer
		_, err = body.ReadFrom(resp.Body)
		require.NoError(t, err)
		return resp, body.Bytes()
	}

	resp, body := get("/debug/config")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var debugMap map[string]any
	require.NoError(t, json.Unmarshal(body, &debugMap))
	require.Contains(t, debugMap, "Runs")

	resp, _ = get("/debug/pprof/cmdline")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "go_goroutines")

	noConfig := httptest.NewServer(MetricsHandler(nil))
	t.Cleanup(noConfig.Close)
	resp, err := http.Get(noConfig.URL + "/debug/config")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeMetricsDisabled(t *testing.T) {
	stop := serveMetrics(context.Background(), "", http.NotFoundHandler())
	stop()
}
