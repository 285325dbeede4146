package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/optimizer"
	"github.com/authzed/rpqplan/pkg/pattern"
	"github.com/authzed/rpqplan/pkg/plan"
)

// OptimizeConfig holds the flags shared by the commands that optimize single
// queries.
type OptimizeConfig struct {
	Optimizer *optimizer.Config
	PlanCache PlanCacheConfig

	// Repeat is the number of times each query is optimized and evaluated.
	Repeat int
}

func NewOptimizeConfig() *OptimizeConfig {
	return &OptimizeConfig{
		Optimizer: optimizer.NewConfigWithOptionsAndDefaults(),
		PlanCache: PlanCacheConfig{MaxCost: defaultPlanCacheMaxCost},
		Repeat:    1,
	}
}

func RegisterOptimizeFlags(cmd *cobra.Command, config *OptimizeConfig) {
	registerSaturationFlags(cmd.Flags(), &config.Optimizer.RuleSet, &config.Optimizer.Limits)
}

// NewOptimizer builds an optimizer from the config, including its plan cache.
func (c *OptimizeConfig) NewOptimizer() (*optimizer.Optimizer, error) {
	plans, err := c.PlanCache.Complete()
	if err != nil {
		return nil, fmt.Errorf("unable to create plan cache: %w", err)
	}
	o, err := optimizer.New(optimizer.NewConfigWithOptions(
		c.Optimizer.ToOption(),
		optimizer.WithPlanCache(plans),
	))
	if err != nil {
		plans.Close()
		return nil, err
	}
	return o, nil
}

// compileQuery parses a query and compiles it against the graph's label
// sizes. Unknown labels are reported with the closest labels the graph has.
func compileQuery(ctx context.Context, g *graph.Graph, text string) (plan.Expr, error) {
	q, err := pattern.Parse(text)
	if err != nil {
		return plan.Expr{}, err
	}

	expr, err := plan.Compile(g.LabelSizes, q)
	var unknown *plan.UnknownLabelError
	if errors.As(err, &unknown) {
		suggestions := g.SuggestLabels(unknown.Label, 3)
		log.Ctx(ctx).Debug().Str("label", unknown.Label).Strs("suggestions", suggestions).Msg("unknown label")
		if len(suggestions) > 0 {
			return plan.Expr{}, fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
		}
	}
	return expr, err
}
