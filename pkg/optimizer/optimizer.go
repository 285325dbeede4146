package optimizer

import (
	"context"
	"strconv"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"resenje.org/singleflight"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/cache"
	"github.com/authzed/rpqplan/pkg/egraph"
	"github.com/authzed/rpqplan/pkg/plan"
)

var tracer = otel.Tracer("rpqplan/pkg/optimizer")

//go:generate go run github.com/ecordell/optgen -output zz_generated.options.go . Config

// Config configures an Optimizer.
type Config struct {
	// RuleSet names the rewrite rules to saturate with.
	RuleSet string `debugmap:"visible" default:"full"`

	// Limits bounds every saturation run.
	Limits egraph.Limits `debugmap:"visible"`

	// PlanCache stores optimized plans keyed by the input plan. Nil disables
	// caching.
	PlanCache cache.Cache[cache.StringKey, Result] `debugmap:"hidden"`

	// Clock times saturation runs. Nil uses the wall clock.
	Clock clock.Clock `debugmap:"hidden"`
}

// Optimizer rewrites plans with equality saturation and extracts the
// cheapest equivalent. It is safe for concurrent use; every call works on
// its own e-graph.
type Optimizer struct {
	ruleSet string
	rules   []*egraph.Rewrite
	runner  *egraph.Runner
	plans   cache.Cache[cache.StringKey, Result]
	group   singleflight.Group[string, Result]
}

// New returns an optimizer for the given configuration.
func New(config *Config) (*Optimizer, error) {
	rules, err := RuleSetByName(config.RuleSet)
	if err != nil {
		return nil, err
	}

	plans := config.PlanCache
	if plans == nil {
		plans = cache.NoopCache[cache.StringKey, Result]()
	}

	return &Optimizer{
		ruleSet: config.RuleSet,
		rules:   rules,
		runner:  egraph.NewRunner(config.Limits, config.Clock),
		plans:   plans,
	}, nil
}

// Close releases the plan cache.
func (o *Optimizer) Close() { o.plans.Close() }

// RuleSet returns the name of the rule set in use.
func (o *Optimizer) RuleSet() string { return o.ruleSet }

// Saturation is an e-graph saturated from one input plan.
type Saturation struct {
	Graph  *egraph.EGraph
	Root   plan.ID
	Report egraph.Report
}

// Extract returns the cheapest plan equivalent to the input under the cost
// function, along with its cost.
func (s *Saturation) Extract(ctx context.Context, costFn egraph.CostFunction) (float64, plan.Expr, error) {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()

	ex, err := egraph.NewExtractor(s.Graph, costFn)
	if err != nil {
		return 0, plan.Expr{}, err
	}
	cost, best, err := ex.FindBest(s.Root)
	if err != nil {
		span.RecordError(err)
		return 0, plan.Expr{}, err
	}
	span.SetAttributes(attribute.Float64("cost", cost), attribute.Int("nodes", best.Len()))
	return cost, best, nil
}

// Saturate seeds a fresh e-graph with the plan and runs the rule set until
// it saturates or exhausts its limits. Exhausting a limit is not an error.
func (o *Optimizer) Saturate(ctx context.Context, expr plan.Expr) (*Saturation, error) {
	ctx, span := tracer.Start(ctx, "Saturate", trace.WithAttributes(
		attribute.String("rule_set", o.ruleSet),
		attribute.Int("input_nodes", expr.Len()),
	))
	defer span.End()

	g := egraph.New()
	root, err := g.AddExpr(expr)
	if err != nil {
		return nil, err
	}

	report, err := o.runner.Run(g, o.rules)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	saturationIterations.Observe(float64(len(report.Iterations)))
	egraphNodes.Observe(float64(report.Nodes))
	egraphClasses.Observe(float64(report.Classes))
	saturationDuration.Observe(report.Elapsed.Seconds())
	saturationStops.WithLabelValues(string(report.StopReason)).Inc()

	span.SetAttributes(
		attribute.String("stop_reason", string(report.StopReason)),
		attribute.Int("iterations", len(report.Iterations)),
		attribute.Int("nodes", report.Nodes),
		attribute.Int("classes", report.Classes),
	)

	event := log.Ctx(ctx).Debug()
	if report.BudgetExceeded() {
		event = log.Ctx(ctx).Warn()
	}
	event.
		Str("stopReason", string(report.StopReason)).
		Int("iterations", len(report.Iterations)).
		Int("nodes", report.Nodes).
		Int("classes", report.Classes).
		Dur("elapsed", report.Elapsed).
		Msg("saturated plan")

	return &Saturation{Graph: g, Root: root, Report: report}, nil
}

// Result is an optimized plan.
type Result struct {
	Plan   plan.Expr
	Cost   float64
	Report egraph.Report
}

// Optimize saturates the plan and extracts the cheapest equivalent under
// DeterministicCost. Results are cached by the input plan, and concurrent
// calls for the same plan share one saturation.
func (o *Optimizer) Optimize(ctx context.Context, expr plan.Expr) (Result, error) {
	key := expr.String()
	if cached, ok := o.plans.Get(cache.StringKey(key)); ok {
		return cached, nil
	}

	result, shared, err := o.group.Do(ctx, key, func(ctx context.Context) (Result, error) {
		s, err := o.Saturate(ctx, expr)
		if err != nil {
			return Result{}, err
		}
		cost, best, err := s.Extract(ctx, DeterministicCost{})
		if err != nil {
			return Result{}, err
		}

		result := Result{Plan: best, Cost: cost, Report: s.Report}
		o.plans.Set(cache.StringKey(key), result, resultCost(key, result))
		return result, nil
	})
	singleFlightCount.WithLabelValues(strconv.FormatBool(shared)).Inc()
	return result, err
}

// nodeBytes approximates the size of a plan node.
const nodeBytes = 40

func resultCost(key string, r Result) int64 {
	return int64(len(key) + r.Plan.Len()*nodeBytes + len(r.Report.Iterations)*64)
}
