package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/eval"
	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/optimizer"
)

func RegisterEvalFlags(cmd *cobra.Command, config *OptimizeConfig) {
	cmd.Flags().IntVar(&config.Repeat, "repeat", config.Repeat, "number of times each query is optimized and evaluated")
	RegisterPlanCacheFlags(cmd.Flags(), &config.PlanCache, "plan-cache")
}

func NewEvalCommand(programName string, config *OptimizeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <graph-dir> <query>...",
		Short: "optimize and evaluate queries against a graph",
		Example: fmt.Sprintf(`	%[1]s eval ./graphs/geospecies '?x <broaderTransitive> ?y'
	%[1]s eval --repeat 10 --plan-cache-max-cost 10%% ./graphs/geospecies '?x (<narrower>)* ?y'`, programName),
		Args:    cobra.MinimumNArgs(2),
		PreRunE: DefaultPreRunE(programName),
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Repeat < 1 {
				return fmt.Errorf("repeat must be positive, found %d", config.Repeat)
			}

			ctx := cmd.Context()
			g, err := graph.LoadDir(ctx, args[0])
			if err != nil {
				return err
			}

			o, err := config.NewOptimizer()
			if err != nil {
				return err
			}
			defer o.Close()
			evaluator := eval.NewEvaluator(eval.NewMatrixEngine(g), nil)

			out := cmd.OutOrStdout()
			var failed int
			for _, text := range args[1:] {
				if err := evalQuery(ctx, out, g, o, evaluator, text, config.Repeat); err != nil {
					log.Ctx(ctx).Warn().Err(err).Str("query", text).Msg("failed to evaluate query")
					fmt.Fprintf(out, "%s\tunable to execute query: %s\n", text, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d queries failed", failed, len(args)-1)
			}
			return nil
		},
	}
}

// evalQuery optimizes and evaluates a single query repeat times, writing one
// line per round.
func evalQuery(ctx context.Context, out io.Writer, g *graph.Graph, o *optimizer.Optimizer, evaluator *eval.Evaluator, text string, repeat int) error {
	input, err := compileQuery(ctx, g, text)
	if err != nil {
		return fmt.Errorf("unable to compile %q: %w", text, err)
	}

	for round := range repeat {
		optimized, err := o.Optimize(ctx, input)
		if err != nil {
			return err
		}
		result, err := evaluator.Evaluate(ctx, optimized.Plan)
		if err != nil {
			return err
		}

		log.Ctx(ctx).Debug().
			Str("query", text).
			Int("round", round).
			Stringer("plan", optimized.Plan).
			Msg("evaluated query")
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n",
			text,
			humanize.Comma(int64(result.Count)),
			result.Elapsed,
			optimized.Plan,
		)
	}
	return nil
}
