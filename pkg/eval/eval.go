package eval

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ccoveille/go-safecast/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/matrix"
	"github.com/authzed/rpqplan/pkg/plan"
)

var tracer = otel.Tracer("rpqplan/pkg/eval")

// Result is the outcome of evaluating a plan.
type Result struct {
	// Count is the number of vertex pairs connected by a matching path.
	Count uint64

	// Elapsed is the wall time spent in the engine.
	Elapsed time.Duration
}

// Evaluator runs plans against an engine, timing them with its clock.
type Evaluator struct {
	engine Engine
	clock  clock.Clock
}

// NewEvaluator returns an evaluator. A nil clock uses the wall clock.
func NewEvaluator(engine Engine, clk clock.Clock) *Evaluator {
	if clk == nil {
		clk = clock.New()
	}
	return &Evaluator{engine: engine, clock: clk}
}

// Evaluate runs the plan against the engine using the wall clock.
func Evaluate(ctx context.Context, engine Engine, expr plan.Expr) (Result, error) {
	return NewEvaluator(engine, nil).Evaluate(ctx, expr)
}

// Evaluate computes the matrix of every node once, children first, and
// returns the entry count of the root. Shared nodes are evaluated once.
func (ev *Evaluator) Evaluate(ctx context.Context, expr plan.Expr) (Result, error) {
	ctx, span := tracer.Start(ctx, "Evaluate", trace.WithAttributes(
		attribute.Int("nodes", expr.Len()),
	))
	defer span.End()

	if err := expr.Validate(); err != nil {
		return Result{}, err
	}

	start := ev.clock.Now()
	values := make([]*matrix.Matrix, expr.Len())
	for i, n := range expr.Nodes() {
		id, err := safecast.Convert[uint32](i)
		if err != nil {
			return Result{}, err
		}
		m, err := ev.evalNode(n, values)
		if err != nil {
			span.RecordError(err)
			return Result{}, &EvalError{Node: plan.ID(id), Op: n.Op, Err: err}
		}
		values[i] = m
	}
	elapsed := ev.clock.Since(start)

	count := ev.engine.Nvals(values[len(values)-1])
	span.SetAttributes(attribute.Int64("elapsed_us", elapsed.Microseconds()))
	log.Ctx(ctx).Trace().Uint64("count", count).Dur("elapsed", elapsed).Msg("evaluated plan")
	return Result{Count: count, Elapsed: elapsed}, nil
}

func (ev *Evaluator) evalNode(n plan.Node, values []*matrix.Matrix) (*matrix.Matrix, error) {
	switch n.Op {
	case plan.LabelOp:
		return ev.engine.Label(n.Label.Name)
	case plan.SeqOp:
		return ev.engine.Compose(values[n.Children[0]], values[n.Children[1]])
	case plan.AltOp:
		return ev.engine.Union(values[n.Children[0]], values[n.Children[1]])
	case plan.StarOp:
		return ev.engine.Closure(values[n.Children[0]])
	case plan.LStarOp:
		return ev.engine.LStar(values[n.Children[0]], values[n.Children[1]])
	case plan.RStarOp:
		return ev.engine.RStar(values[n.Children[0]], values[n.Children[1]])
	default:
		return nil, errUnknownOp(n.Op)
	}
}
