package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/optimizer"
)

func NewExplainCommand(programName string, config *OptimizeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <graph-dir> <query>",
		Short: "show the compiled and optimized plans for a query",
		Example: fmt.Sprintf(`	%[1]s explain ./graphs/geospecies '?x <broaderTransitive>/(<narrower>)* ?y'
	%[1]s explain --rules minimal ./graphs/geospecies '<Animalia> (<narrower>)+ ?y'`, programName),
		Args:    cobra.ExactArgs(2),
		PreRunE: DefaultPreRunE(programName),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := graph.LoadDir(ctx, args[0])
			if err != nil {
				return err
			}

			input, err := compileQuery(ctx, g, args[1])
			if err != nil {
				return err
			}

			o, err := optimizer.New(config.Optimizer)
			if err != nil {
				return err
			}
			s, err := o.Saturate(ctx, input)
			if err != nil {
				return err
			}
			cost, best, err := s.Extract(ctx, optimizer.DeterministicCost{})
			if err != nil {
				return err
			}
			inputCost := optimizer.PlanCost(input, optimizer.DeterministicCost{})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Input plan (cost %s):\n%s\n", humanize.Ftoa(inputCost), input.Explain())
			fmt.Fprintf(out, "Saturation: %s after %d iterations, %s nodes in %s classes (%s)\n\n",
				s.Report.StopReason,
				len(s.Report.Iterations),
				humanize.Comma(int64(s.Report.Nodes)),
				humanize.Comma(int64(s.Report.Classes)),
				s.Report.Elapsed,
			)
			fmt.Fprintf(out, "Best plan (cost %s):\n%s\n", humanize.Ftoa(cost), best.Explain())
			return nil
		},
	}
}
