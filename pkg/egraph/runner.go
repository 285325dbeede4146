package egraph

import (
	"time"

	"github.com/benbjohnson/clock"

	log "github.com/authzed/rpqplan/internal/logging"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.options.go . Limits

// Limits bounds a saturation run. The rule sets used for plans include
// unconstrained associativity and commutativity, so a run is not guaranteed
// to saturate on its own.
type Limits struct {
	// MaxIterations is the number of search/apply/rebuild rounds allowed.
	MaxIterations int `debugmap:"visible" default:"30" yaml:"maxIterations"`

	// MaxNodes is the hash-consed node count above which rule application
	// stops.
	MaxNodes int `debugmap:"visible" default:"10000" yaml:"maxNodes"`

	// TimeLimit is the wall time allowed for the run. Zero disables it.
	TimeLimit time.Duration `debugmap:"visible" default:"5s" yaml:"timeLimit"`
}

// StopReason describes why a saturation run ended.
type StopReason string

const (
	// StopSaturated means a full pass produced no new unions.
	StopSaturated StopReason = "saturated"

	// StopIterationLimit means MaxIterations rounds were run.
	StopIterationLimit StopReason = "iteration limit"

	// StopNodeLimit means the e-graph grew past MaxNodes.
	StopNodeLimit StopReason = "node limit"

	// StopTimeLimit means the run took longer than TimeLimit.
	StopTimeLimit StopReason = "time limit"
)

// Iteration records the work done by one search/apply/rebuild round.
type Iteration struct {
	Matches       int
	Applied       int
	RebuildUnions int
	Nodes         int
	Classes       int
	Elapsed       time.Duration
}

// Report summarizes a saturation run.
type Report struct {
	StopReason StopReason
	Iterations []Iteration
	Nodes      int
	Classes    int
	Elapsed    time.Duration
}

// BudgetExceeded returns true if the run stopped on a limit rather than
// saturating. The e-graph is still valid and extractable in that case.
func (r Report) BudgetExceeded() bool {
	return r.StopReason != StopSaturated
}

// Runner applies rewrites to an e-graph until it saturates or hits a limit.
type Runner struct {
	limits Limits
	clock  clock.Clock
}

// NewRunner returns a runner with the given limits. A nil clock uses the
// wall clock.
func NewRunner(limits Limits, clk clock.Clock) *Runner {
	if clk == nil {
		clk = clock.New()
	}
	return &Runner{limits: limits, clock: clk}
}

// Limits returns the runner's limits.
func (r *Runner) Limits() Limits { return r.limits }

// Run saturates the e-graph with the given rules. Hitting a limit is not an
// error; the returned report says why the run stopped and the e-graph is
// left rebuilt.
func (r *Runner) Run(g *EGraph, rules []*Rewrite) (Report, error) {
	start := r.clock.Now()
	g.Rebuild()

	report := Report{}
	for {
		if reason, stop := r.checkLimits(g, len(report.Iterations), start); stop {
			report.StopReason = reason
			break
		}

		iteration, hitNodeLimit, err := r.step(g, rules)
		if err != nil {
			return report, err
		}
		report.Iterations = append(report.Iterations, iteration)

		log.Trace().
			Int("iteration", len(report.Iterations)).
			Int("matches", iteration.Matches).
			Int("applied", iteration.Applied).
			Int("rebuildUnions", iteration.RebuildUnions).
			Int("nodes", iteration.Nodes).
			Int("classes", iteration.Classes).
			Msg("saturation iteration")

		if hitNodeLimit {
			report.StopReason = StopNodeLimit
			break
		}
		if iteration.Applied == 0 && iteration.RebuildUnions == 0 {
			report.StopReason = StopSaturated
			break
		}
	}

	report.Nodes = g.NodeCount()
	report.Classes = g.ClassCount()
	report.Elapsed = r.clock.Since(start)
	return report, nil
}

func (r *Runner) checkLimits(g *EGraph, iterations int, start time.Time) (StopReason, bool) {
	switch {
	case iterations >= r.limits.MaxIterations:
		return StopIterationLimit, true
	case g.NodeCount() > r.limits.MaxNodes:
		return StopNodeLimit, true
	case r.limits.TimeLimit > 0 && r.clock.Since(start) > r.limits.TimeLimit:
		return StopTimeLimit, true
	default:
		return "", false
	}
}

// step runs one round: every rule is searched against the same clean
// e-graph before any of them is applied.
func (r *Runner) step(g *EGraph, rules []*Rewrite) (Iteration, bool, error) {
	start := r.clock.Now()
	iteration := Iteration{}

	matches := make([][]Match, len(rules))
	for i, rule := range rules {
		matches[i] = rule.Search(g)
		for _, m := range matches[i] {
			iteration.Matches += len(m.Substs)
		}
	}

	hitNodeLimit := false
apply:
	for i, rule := range rules {
		for _, m := range matches[i] {
			for _, subst := range m.Substs {
				changed, err := rule.Apply(g, m.Class, subst)
				if err != nil {
					return iteration, false, err
				}
				if changed {
					iteration.Applied++
				}
				if g.NodeCount() > r.limits.MaxNodes {
					hitNodeLimit = true
					break apply
				}
			}
		}
	}

	iteration.RebuildUnions = g.Rebuild()
	iteration.Nodes = g.NodeCount()
	iteration.Classes = g.ClassCount()
	iteration.Elapsed = r.clock.Since(start)
	return iteration, hitNodeLimit, nil
}
