package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/bench"
	"github.com/authzed/rpqplan/pkg/egraph"
	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/pattern"
)

func BenchExample(programName string) string {
	return fmt.Sprintf(`	%[1]s bench ./graphs/geospecies ./queries.txt
	%[1]s bench --cost deterministic --runs 100 ./graphs/geospecies ./queries.txt
	%[1]s bench --config bench.yaml --metrics-addr :9090 ./graphs/geospecies ./queries.txt
		`, programName)
}

// RegisterBenchFlags binds the bench flags to the config. Flag defaults are
// the config's current values.
func RegisterBenchFlags(cmd *cobra.Command, config *bench.Config) error {
	flags := cmd.Flags()
	flags.IntVar(&config.Runs, "runs", config.Runs, "number of timed evaluations per query")
	flags.IntVar(&config.Warmup, "warmup", config.Warmup, "number of untimed evaluations per query before timing starts")
	flags.StringVar((*string)(&config.Mode), "cost", string(config.Mode), `plan selection for each evaluation ("random" or "deterministic")`)
	flags.IntVar(&config.Concurrency, "concurrency", config.Concurrency, "number of queries benchmarked at once")
	flags.Uint64Var(&config.Seed, "seed", config.Seed, "seed for random plan selection; zero picks one at random")
	registerSaturationFlags(flags, &config.RuleSet, &config.Limits)

	flags.String("config", "", "path to a YAML bench config; flags set explicitly take precedence")
	flags.String("metrics-addr", "", "address to serve metrics and profiles on while benchmarking; empty disables it")

	return cmd.MarkFlagFilename("config", "yaml", "yml")
}

func registerSaturationFlags(flags *pflag.FlagSet, ruleSet *string, limits *egraph.Limits) {
	flags.StringVar(ruleSet, "rules", *ruleSet, `rewrite rules to saturate with ("full" or "minimal")`)
	flags.IntVar(&limits.MaxIterations, "max-iterations", limits.MaxIterations, "maximum number of saturation iterations")
	flags.IntVar(&limits.MaxNodes, "max-nodes", limits.MaxNodes, "maximum number of e-graph nodes before saturation stops")
	flags.DurationVar(&limits.TimeLimit, "time-limit", limits.TimeLimit, "maximum time spent saturating one query; zero disables it")
}

func NewBenchCommand(programName string, config *bench.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "bench <graph-dir> <queries-file>",
		Short:   "benchmark optimized plans for a file of queries",
		Long:    "Saturates every query against the graph's label sizes, then repeatedly extracts and evaluates plans, reporting timings per query.",
		Example: BenchExample(programName),
		Args:    cobra.ExactArgs(2),
		PreRunE: DefaultPreRunE(programName),
		RunE: func(cmd *cobra.Command, args []string) error {
			if path := cobrautil.MustGetString(cmd, "config"); path != "" {
				if err := loadBenchConfigFile(cmd.Flags(), path, config); err != nil {
					return err
				}
			}
			if err := config.Validate(); err != nil {
				return err
			}

			signalctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stopMetrics := serveMetrics(signalctx, cobrautil.MustGetString(cmd, "metrics-addr"), MetricsHandler(config.DebugMap))
			defer stopMetrics()

			return runBench(signalctx, cmd, config, args[0], args[1])
		},
	}
}

func runBench(ctx context.Context, cmd *cobra.Command, config *bench.Config, graphDir, queriesPath string) error {
	g, err := graph.LoadDir(ctx, graphDir)
	if err != nil {
		return err
	}

	queries, err := pattern.ReadQueriesFile(queriesPath)
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Int("queries", len(queries)).Str("path", queriesPath).Msg("read queries")

	runner, err := bench.NewRunner(config, g, cmd.OutOrStdout(), bench.WithProgress(os.Stderr))
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx, queries)
	if err != nil {
		return err
	}
	if failed := summary.Failed(); failed > 0 {
		log.Ctx(ctx).Warn().Int("failed", failed).Int("queries", len(queries)).Msg("some queries could not be benchmarked")
	}
	return nil
}

// loadBenchConfigFile reads a YAML config over the flag-bound config, then
// restores any flags that were set explicitly.
func loadBenchConfigFile(flags *pflag.FlagSet, path string, config *bench.Config) error {
	explicit := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if err := bench.LoadConfigFile(path, config); err != nil {
		return err
	}

	for name, value := range explicit {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("unable to apply flag %s: %w", name, err)
		}
	}
	return nil
}
